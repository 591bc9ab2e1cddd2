package http

import "github.com/gin-gonic/gin"

// Response envelope: success carries data, fail carries a client-side
// message, error carries a server-side message.

func successResponse(data interface{}) gin.H {
	return gin.H{
		"status": "success",
		"data":   data,
	}
}

func failResponse(message string) gin.H {
	return gin.H{
		"status":  "fail",
		"message": message,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"status":  "error",
		"message": message,
	}
}
