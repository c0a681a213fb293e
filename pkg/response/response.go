package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes {"message": ..., <key>: <value>...}. Extra fields are merged
// at the top level next to the message.
func Success(c *gin.Context, status int, message string, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes {"message": ...} and aborts the chain.
func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// ErrorWithDetails writes {"message": ..., "errors": {field: reason}} and aborts.
func ErrorWithDetails(c *gin.Context, status int, message string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := gin.H{"message": message}
	if len(details) > 0 {
		body["errors"] = details
	}
	c.AbortWithStatusJSON(status, body)
}
