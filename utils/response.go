package utils

import "github.com/gin-gonic/gin"

// JSONMessage writes the standard {"message": ...} error/info payload.
func JSONMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// JSONInternal writes a 500 payload; the underlying error detail is
// included only outside production.
func JSONInternal(c *gin.Context, message string, err error) {
	payload := gin.H{"message": message}
	if err != nil && !IsProduction() {
		payload["error"] = err.Error()
	}
	c.JSON(500, payload)
}
