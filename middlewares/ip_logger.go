package middlewares

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// IPLogger logs the client IP of every request once it completes. Websocket
// upgrades are logged when the socket closes.
func IPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s %s -> %d (%s)", c.ClientIP(), c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
