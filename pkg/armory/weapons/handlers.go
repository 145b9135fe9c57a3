package weapons

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/valoarmory/armory/pkg/armory/models"
)

// Handler handles weapon reference-data requests
type Handler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHandler creates a new weapons handler
func NewHandler(db *gorm.DB, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// CreateWeaponRequest represents the request to add a weapon
type CreateWeaponRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// DeleteWeaponRequest represents the request to delete a weapon by id
type DeleteWeaponRequest struct {
	ID uint `json:"id" binding:"required"`
}

// List returns all weapons ordered by id
// @Summary List weapons
// @Description Get the weapon reference list
// @Tags weapons
// @Produce json
// @Success 200 {array} models.Weapon
// @Security BearerAuth
// @Router /weapons [get]
func (h *Handler) List(c *gin.Context) {
	var weapons []models.Weapon
	if err := h.db.Order("id ASC").Find(&weapons).Error; err != nil {
		h.logger.Error("failed to fetch weapons", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weapons"})
		return
	}
	c.JSON(http.StatusOK, weapons)
}

// Create adds a new weapon
// @Summary Add a weapon
// @Description Add a weapon to the reference list
// @Tags weapons
// @Accept json
// @Produce json
// @Param request body CreateWeaponRequest true "Weapon name and type"
// @Success 200 {object} models.Weapon
// @Failure 400 {object} map[string]string "Missing fields"
// @Security BearerAuth
// @Router /weapons [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateWeaponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	weapon := models.Weapon{Name: req.Name, Type: req.Type}
	if err := h.db.Create(&weapon).Error; err != nil {
		h.logger.Error("failed to create weapon", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create weapon"})
		return
	}

	c.JSON(http.StatusOK, weapon)
}

// Delete removes a weapon by id. Skins referencing the weapon's name or
// type keep their free-text values unchanged.
// @Summary Delete a weapon
// @Description Delete a weapon from the reference list by id
// @Tags weapons
// @Accept json
// @Produce json
// @Param request body DeleteWeaponRequest true "Weapon id"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string "Missing id"
// @Failure 404 {object} map[string]string "Weapon not found"
// @Security BearerAuth
// @Router /weapons [delete]
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteWeaponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}

	result := h.db.Delete(&models.Weapon{}, req.ID)
	if result.Error != nil {
		h.logger.Error("failed to delete weapon", zap.Uint("id", req.ID), zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete weapon"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Weapon not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterRoutes registers weapon routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/weapons", h.List)
	rg.POST("/weapons", h.Create)
	rg.DELETE("/weapons", h.Delete)
}
