package public

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/valoarmory/armory/pkg/armory/models"
)

// Handler serves the unauthenticated catalog surface
type Handler struct {
	db       *gorm.DB
	logger   *zap.Logger
	interval time.Duration
}

// NewHandler creates a new public catalog handler. interval is the live
// feed's republish period.
func NewHandler(db *gorm.DB, logger *zap.Logger, interval time.Duration) *Handler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Handler{db: db, logger: logger, interval: interval}
}

// PublicSkin is the reduced projection exposed to the storefront. The
// API key and owning user id are never part of this shape.
type PublicSkin struct {
	ID          uint   `json:"id"`
	WeaponName  string `json:"weaponName"`
	WeaponType  string `json:"weaponType"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Status      string `json:"status"`
}

func toPublic(skins []models.WeaponSkin) []PublicSkin {
	out := make([]PublicSkin, len(skins))
	for i, s := range skins {
		out[i] = PublicSkin{
			ID:          s.ID,
			WeaponName:  s.WeaponName,
			WeaponType:  s.WeaponType,
			ImageURL:    s.ImageURL,
			Description: s.Description,
			Price:       s.Price,
			Status:      string(s.Status),
		}
	}
	return out
}

// List returns all active skins in the public projection
// @Summary List active skins
// @Description Get all active catalog entries in the public shape
// @Tags public
// @Produce json
// @Success 200 {array} PublicSkin
// @Router /public/skins [get]
func (h *Handler) List(c *gin.Context) {
	var skins []models.WeaponSkin
	if err := h.db.Where("status = ?", models.StatusActive).Find(&skins).Error; err != nil {
		h.logger.Error("failed to fetch public skins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weapon skins"})
		return
	}
	c.JSON(http.StatusOK, toPublic(skins))
}

// RegisterRoutes registers the public catalog routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/skins", h.List)
	rg.GET("/skins/stream", h.Stream)
}
