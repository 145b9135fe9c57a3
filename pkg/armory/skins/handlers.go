package skins

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/valoarmory/armory/pkg/armory/auth"
	"github.com/valoarmory/armory/pkg/armory/models"
)

// Handler handles weapon-skin admin requests
type Handler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHandler creates a new skins handler
func NewHandler(db *gorm.DB, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// CreateSkinRequest represents the request to create a skin
type CreateSkinRequest struct {
	Filename    string `json:"filename" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" binding:"required"`
	WeaponType  string `json:"weaponType" binding:"required"`
	WeaponName  string `json:"weaponName" binding:"required"`
	APIKey      string `json:"apiKey"`
	Price       *int   `json:"price"`
}

// UpdateSkinRequest represents a partial patch of a skin. Empty string
// fields are left unchanged.
type UpdateSkinRequest struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	WeaponType  string `json:"weaponType"`
	WeaponName  string `json:"weaponName"`
	APIKey      string `json:"apiKey"`
	Price       *int   `json:"price"`
}

// UpdateStatusRequest represents the request to toggle a skin's status
type UpdateStatusRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// SkinResponse represents a skin in admin API responses. The full key is
// returned to the owner alongside its masked display form.
type SkinResponse struct {
	ID           uint   `json:"id"`
	Filename     string `json:"filename"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
	UserID       string `json:"userId"`
	WeaponType   string `json:"weaponType"`
	WeaponName   string `json:"weaponName"`
	APIKey       string `json:"apiKey"`
	APIKeyMasked string `json:"apiKeyMasked"`
	Status       string `json:"status"`
	Price        int    `json:"price"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func skinToResponse(skin models.WeaponSkin) SkinResponse {
	return SkinResponse{
		ID:           skin.ID,
		Filename:     skin.Filename,
		Description:  skin.Description,
		ImageURL:     skin.ImageURL,
		UserID:       skin.UserID,
		WeaponType:   skin.WeaponType,
		WeaponName:   skin.WeaponName,
		APIKey:       skin.APIKey,
		APIKeyMasked: MaskAPIKey(skin.APIKey),
		Status:       string(skin.Status),
		Price:        skin.Price,
		CreatedAt:    skin.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    skin.UpdatedAt.Format(time.RFC3339),
	}
}

// NewSkin builds a WeaponSkin with the creation invariants applied: status
// Active, generated API key when none is supplied, price floored at zero.
func NewSkin(ownerID, filename, imageURL, weaponType, weaponName, description string, apiKey string, price int) models.WeaponSkin {
	if apiKey == "" {
		apiKey = GenerateAPIKey(ownerID, filename)
	}
	if price < 0 {
		price = 0
	}
	return models.WeaponSkin{
		Filename:    filename,
		Description: description,
		ImageURL:    imageURL,
		UserID:      ownerID,
		WeaponType:  weaponType,
		WeaponName:  weaponName,
		APIKey:      apiKey,
		Status:      models.StatusActive,
		Price:       price,
	}
}

// List returns all skins owned by the caller
// @Summary List own skins
// @Description Get all weapon skins owned by the authenticated admin
// @Tags skins
// @Produce json
// @Success 200 {array} SkinResponse
// @Security BearerAuth
// @Router /skins [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var skins []models.WeaponSkin
	if err := h.db.Where("user_id = ?", userID).Find(&skins).Error; err != nil {
		h.logger.Error("failed to fetch skins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weapon skins"})
		return
	}

	responses := make([]SkinResponse, len(skins))
	for i, skin := range skins {
		responses[i] = skinToResponse(skin)
	}

	c.JSON(http.StatusOK, responses)
}

// Create creates a new weapon skin
// @Summary Create a skin
// @Description Create a new weapon skin with a generated API key
// @Tags skins
// @Accept json
// @Produce json
// @Param request body CreateSkinRequest true "Skin details"
// @Success 201 {object} SkinResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /skins [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateSkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	price := 0
	if req.Price != nil {
		price = *req.Price
	}

	skin := NewSkin(userID, req.Filename, req.ImageURL, req.WeaponType, req.WeaponName, req.Description, req.APIKey, price)

	if err := h.db.Create(&skin).Error; err != nil {
		h.logger.Error("failed to create skin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create weapon skin"})
		return
	}

	c.JSON(http.StatusCreated, skinToResponse(skin))
}

// Update applies a partial patch to a skin owned by the caller
// @Summary Update a skin
// @Description Update an existing weapon skin by id
// @Tags skins
// @Accept json
// @Produce json
// @Param id path int true "Skin ID"
// @Param request body UpdateSkinRequest true "Updated skin fields"
// @Success 200 {object} SkinResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Skin not found"
// @Security BearerAuth
// @Router /skins/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	skinID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skin ID"})
		return
	}

	var skin models.WeaponSkin
	if err := h.db.First(&skin, skinID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skin not found"})
		return
	}

	// Ownership check; 404 rather than 403 to avoid leaking ids.
	if skin.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skin not found"})
		return
	}

	var req UpdateSkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Filename != "" {
		skin.Filename = req.Filename
	}
	if req.Description != "" {
		skin.Description = req.Description
	}
	if req.ImageURL != "" {
		skin.ImageURL = req.ImageURL
	}
	if req.WeaponType != "" {
		skin.WeaponType = req.WeaponType
	}
	if req.WeaponName != "" {
		skin.WeaponName = req.WeaponName
	}
	if req.APIKey != "" {
		// The key is regenerated only when explicitly supplied.
		skin.APIKey = req.APIKey
	}
	if req.Price != nil {
		price := *req.Price
		if price < 0 {
			price = 0
		}
		skin.Price = price
	}

	if err := h.db.Save(&skin).Error; err != nil {
		h.logger.Error("failed to update skin", zap.Uint("id", skin.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update weapon skin"})
		return
	}

	c.JSON(http.StatusOK, skinToResponse(skin))
}

// UpdateStatus toggles a skin between Active and Disabled
// @Summary Update skin status
// @Description Set a skin's status to Active or Disabled
// @Tags skins
// @Accept json
// @Produce json
// @Param request body UpdateStatusRequest true "Skin id and new status"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string "Missing id or invalid status"
// @Failure 404 {object} map[string]string "Skin not found"
// @Security BearerAuth
// @Router /skins/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id or status"})
		return
	}

	if !models.ValidStatus(models.SkinStatus(req.Status)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Active or Disabled"})
		return
	}

	result := h.db.Model(&models.WeaponSkin{}).Where("id = ?", req.ID).Update("status", req.Status)
	if result.Error != nil {
		h.logger.Error("failed to update skin status", zap.Uint("id", req.ID), zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skin not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete removes a skin owned by the caller
// @Summary Delete a skin
// @Description Delete a weapon skin by id
// @Tags skins
// @Produce json
// @Param id path int true "Skin ID"
// @Success 200 {object} map[string]string "Skin deleted"
// @Failure 404 {object} map[string]string "Skin not found"
// @Security BearerAuth
// @Router /skins/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	skinID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skin ID"})
		return
	}

	var skin models.WeaponSkin
	if err := h.db.Where("id = ? AND user_id = ?", skinID, userID).First(&skin).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skin not found"})
		return
	}

	if err := h.db.Delete(&skin).Error; err != nil {
		h.logger.Error("failed to delete skin", zap.Uint("id", skin.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete weapon skin"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Skin deleted"})
}

// RegisterRoutes registers skin admin routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/skins", h.List)
	rg.POST("/skins", h.Create)
	rg.PATCH("/skins/status", h.UpdateStatus)
	rg.PUT("/skins/:id", h.Update)
	rg.DELETE("/skins/:id", h.Delete)
}
