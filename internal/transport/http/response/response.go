package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Errors map[string][]string `json:"errors"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Errors writes {"errors": {field: [messages]}}.
func Errors(c *gin.Context, httpStatus int, fields map[string][]string) {
	c.JSON(httpStatus, ErrorBody{Errors: fields})
}

func Error(c *gin.Context, httpStatus int, field, message string) {
	Errors(c, httpStatus, map[string][]string{field: {message}})
}

// Empty writes a bare {} body.
func Empty(c *gin.Context, httpStatus int) {
	c.JSON(httpStatus, gin.H{})
}

func MissingCredentials(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": "missing authorization credentials",
	})
}
