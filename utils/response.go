package utils

import "github.com/gin-gonic/gin"

// Every response is an envelope: {"status":"success","data":...} or {"status":"error","message":...}.

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// JSONFieldError names the form field the UI should highlight.
func JSONFieldError(c *gin.Context, code int, field, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message, "field": field})
}

// AbortJSONError stops the handler chain; used by middleware.
func AbortJSONError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"status": "error", "message": message})
}
