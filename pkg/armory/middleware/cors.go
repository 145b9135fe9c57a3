package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func corsHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// CORS applies the permissive cross-origin headers carried by every
// public response, and answers preflight requests with 204.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		corsHeaders(c)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Preflight answers an OPTIONS request with the permissive headers.
// Group middleware only runs for matched routes, so preflight paths
// need a registered OPTIONS route of their own.
func Preflight(c *gin.Context) {
	corsHeaders(c)
	c.Status(http.StatusNoContent)
}
