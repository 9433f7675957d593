package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// CORS lets the browser dashboard call the API. origenes comes from
// CORS_ORIGENES; "*" allows any origin, otherwise the request's Origin is
// echoed back only when it is listed.
func CORS(origenes []string) gin.HandlerFunc {
	todos := slices.Contains(origenes, "*")
	return func(c *gin.Context) {
		origen := c.GetHeader("Origin")
		switch {
		case todos:
			c.Header("Access-Control-Allow-Origin", "*")
		case origen != "" && slices.Contains(origenes, origen):
			c.Header("Access-Control-Allow-Origin", origen)
			c.Header("Vary", "Origin")
		case origen != "" && c.Request.Method == http.MethodOptions:
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
