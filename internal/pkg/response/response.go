// Package response writes the flat JSON bodies the design frontend expects:
// {"error": "..."} for failures, {"message": "..."} for acknowledgements,
// and bare records otherwise.
package response

import "github.com/gin-gonic/gin"

func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func Message(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
