package handlers

import "github.com/gin-gonic/gin"

func respondOK(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondErr(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// callerID returns the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) uint {
	return c.GetUint("userID")
}
