package uploads

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/valoarmory/armory/pkg/armory/auth"
	"github.com/valoarmory/armory/pkg/armory/skins"
)

// Handler handles upload-completion callbacks from the object upload
// provider. The provider stores the binary and calls back with the file
// reference plus the metadata the uploader supplied.
type Handler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHandler creates a new uploads handler
func NewHandler(db *gorm.DB, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// CompleteRequest represents the upload-completion payload
type CompleteRequest struct {
	Filename    string `json:"filename" binding:"required"`
	FileURL     string `json:"fileUrl" binding:"required"`
	WeaponType  string `json:"weaponType" binding:"required"`
	WeaponName  string `json:"weaponName" binding:"required"`
	Description string `json:"description"`
	Price       *int   `json:"price"`
}

// CompleteResponse is returned to the upload provider
type CompleteResponse struct {
	UploadedBy string `json:"uploadedBy"`
	APIKey     string `json:"apiKey"`
}

// Complete creates one weapon skin from a finished upload
// @Summary Upload completion callback
// @Description Create a weapon skin from a completed upload
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body CompleteRequest true "Stored file reference and metadata"
// @Success 200 {object} CompleteResponse
// @Failure 400 {object} map[string]string "Missing fields or negative price"
// @Security BearerAuth
// @Router /uploads/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	price := 0
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be non-negative"})
			return
		}
		price = *req.Price
	}

	skin := skins.NewSkin(userID, req.Filename, req.FileURL, req.WeaponType, req.WeaponName, req.Description, "", price)

	if err := h.db.Create(&skin).Error; err != nil {
		h.logger.Error("failed to create skin from upload",
			zap.String("user_id", userID), zap.String("filename", req.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create weapon skin"})
		return
	}

	h.logger.Info("upload complete", zap.String("user_id", userID), zap.Uint("skin_id", skin.ID))

	c.JSON(http.StatusOK, CompleteResponse{
		UploadedBy: userID,
		APIKey:     skin.APIKey,
	})
}

// RegisterRoutes registers upload callback routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/complete", h.Complete)
}
