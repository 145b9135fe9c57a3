package public

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/valoarmory/armory/pkg/armory/models"
)

// Stream handles GET /public/skins/stream.
// It pushes the current active catalog immediately, then republishes it
// on a fixed interval until the consumer disconnects. Each subscriber
// owns its own ticker; the ticker is stopped when the request context is
// cancelled and no further work occurs for that connection. A failed
// fetch skips the tick; there is no retry or buffering of missed pushes.
func (h *Handler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func() {
		var skins []models.WeaponSkin
		// Only active skins with a stored image are streamable.
		if err := h.db.Where("status = ? AND image_url <> ''", models.StatusActive).Find(&skins).Error; err != nil {
			h.logger.Error("stream catalog fetch failed", zap.Error(err))
			return
		}
		payload, err := json.Marshal(toPublic(skins))
		if err != nil {
			h.logger.Error("stream marshal failed", zap.Error(err))
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		c.Writer.Flush()
	}

	// First batch goes out before the first tick.
	send()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			send()
		case <-c.Request.Context().Done():
			return
		}
	}
}
