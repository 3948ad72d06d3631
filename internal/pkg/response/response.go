package response

import (
	"errors"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// CustomError accepts a plain message, an error or a field map as payload.
// Errors are attached to the gin context so the request logger can report them.
func CustomError(c *gin.Context, statusCode int, code string, payload any) {
	switch v := payload.(type) {
	case string:
		Error(c, statusCode, code, v)
	case error:
		_ = c.Error(v)
		var msg string
		if statusCode >= 500 {
			msg = "Internal server error"
		} else {
			msg = v.Error()
		}
		Error(c, statusCode, code, msg)
	case map[string]string:
		ErrorWithDetails(c, statusCode, code, "Request validation failed", v)
	default:
		_ = c.Error(errors.New(code))
		ErrorWithDetails(c, statusCode, code, code, v)
	}
}
