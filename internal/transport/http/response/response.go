package response

import "github.com/gin-gonic/gin"

const (
	MsgNotFound     = "Not found"
	MsgUnauthorized = "Authentication required"
	MsgBadPayload   = "Invalid request payload"
	MsgTooMany      = "Too many requests, please slow down"
)

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK writes {success:true, message?, ...fields}.
func OK(c *gin.Context, httpStatus int, message string, fields gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(httpStatus, body)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, APIResponse{
		Success: false,
		Message: message,
	})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, httpStatus int, message string) {
	Error(c, httpStatus, message)
	c.Abort()
}
