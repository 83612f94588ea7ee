package util

import "github.com/gin-gonic/gin"

// Response is the body of a successful reply.
type Response map[string]interface{}

// Success writes a JSON body with the given status.
func Success(c *gin.Context, status int, data Response) {
	c.JSON(status, data)
}

// Error writes the uniform error body. msg is a fixed, user-facing message;
// internal error detail stays in the server log.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
