package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets baseline hardening headers. The API serves only JSON,
// but responses can end up embedded or proxied, so the browser-facing
// headers stay on.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		c.Next()
	}
}
