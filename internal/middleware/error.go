package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler is a middleware that recovers panics into a JSON 500 and
// logs errors handlers attached to the context
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Error: panic serving %s %s [%s]: %v", c.Request.Method, c.Request.URL.Path, c.GetString(RequestIDKey), err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		for _, e := range c.Errors {
			log.Printf("Error: %s %s [%s] status=%d: %v", c.Request.Method, c.Request.URL.Path, c.GetString(RequestIDKey), c.Writer.Status(), e.Err)
		}
	}
}
