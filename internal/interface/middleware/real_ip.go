package middleware

import (
	"github.com/gin-gonic/gin"
)

// RealIPKey is the Gin context key holding the resolved client IP.
const RealIPKey = "real_ip"

// RealIP stores the client IP under RealIPKey.
//
// The address comes from c.ClientIP(), so forwarding headers only count when
// the peer is listed in the engine's trusted proxies (or the engine has a
// TrustedPlatform set). Anything else sees the socket address.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(RealIPKey, c.ClientIP())
		c.Next()
	}
}
