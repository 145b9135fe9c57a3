package purchases

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/valoarmory/armory/pkg/armory/auth"
	"github.com/valoarmory/armory/pkg/armory/models"
)

// Handler handles purchase ledger requests
type Handler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHandler creates a new purchases handler
func NewHandler(db *gorm.DB, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// RecordPurchaseRequest represents a purchase confirmation. The purchaser
// id comes from the authenticated session, never from the body.
type RecordPurchaseRequest struct {
	WeaponID   uint   `json:"weaponId" binding:"required"`
	WeaponName string `json:"weaponName" binding:"required"`
	ImageURL   string `json:"imageUrl"`
	Price      *int   `json:"price"`
}

// Record appends one immutable purchase row
// @Summary Record a purchase
// @Description Record a completed purchase for the authenticated user
// @Tags purchases
// @Accept json
// @Produce json
// @Param request body RecordPurchaseRequest true "Purchased item snapshot"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing required fields"
// @Security BearerAuth
// @Router /purchased [post]
func (h *Handler) Record(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	price := 0
	if req.Price != nil && *req.Price > 0 {
		price = *req.Price
	}

	purchase := models.Purchase{
		WeaponID:   req.WeaponID,
		WeaponName: req.WeaponName,
		ImageURL:   req.ImageURL,
		Price:      price,
		UserID:     userID,
	}

	if err := h.db.Create(&purchase).Error; err != nil {
		h.logger.Error("failed to record purchase", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save purchase"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Purchase saved successfully!"})
}

// ListAll returns every purchase row, oldest first
// @Summary List all purchases
// @Description Get all purchase records, ordered by creation time
// @Tags purchases
// @Produce json
// @Success 200 {array} models.Purchase
// @Security BearerAuth
// @Router /admin/purchases [get]
func (h *Handler) ListAll(c *gin.Context) {
	var purchases []models.Purchase
	if err := h.db.Order("created_at ASC").Find(&purchases).Error; err != nil {
		h.logger.Error("failed to fetch purchases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// ListForUser returns one user's purchase history, oldest first
// @Summary List a user's purchases
// @Description Get purchase records for the given userId query parameter
// @Tags purchases
// @Produce json
// @Param userId query string true "User id"
// @Success 200 {array} models.Purchase
// @Failure 400 {object} map[string]string "Missing userId"
// @Router /public/purchases [get]
func (h *Handler) ListForUser(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}

	var purchases []models.Purchase
	if err := h.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&purchases).Error; err != nil {
		h.logger.Error("failed to fetch user purchases", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// RegisterRecordRoute registers the authenticated purchase-confirmation route
func (h *Handler) RegisterRecordRoute(rg *gin.RouterGroup) {
	rg.POST("/purchased", h.Record)
}

// RegisterAdminRoutes registers admin-only ledger routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/purchases", h.ListAll)
}

// RegisterPublicRoutes registers unauthenticated ledger routes
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/purchases", h.ListForUser)
}
