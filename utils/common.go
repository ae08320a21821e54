package utils

import "github.com/gin-gonic/gin"

// RespondJSON writes payload with status. A nil payload writes only the status.
func RespondJSON(c *gin.Context, status int, payload interface{}) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// RespondError writes {"error": message}.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
