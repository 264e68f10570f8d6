package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/config"
	"github.com/rs/zerolog/log"
)

const defaultErrorMessage = "Internal server error"

// ErrorHandler turns errors recorded with c.Error into a 500 response.
// The public message comes from the error's meta, the raw error is only
// exposed in development.
func ErrorHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
		}

		if c.Writer.Written() {
			return
		}

		message := defaultErrorMessage
		if meta, ok := last.Meta.(string); ok && meta != "" {
			message = meta
		}
		body := gin.H{
			"success": false,
			"message": message,
		}
		if cfg.IsDevelopment() {
			body["error"] = last.Err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// Recovery converts panics into the same 500 response
func Recovery(cfg *config.Config) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", GetRequestID(c)).
			Str("panic", fmt.Sprintf("%v", recovered)).
			Msg("panic recovered")

		body := gin.H{
			"success": false,
			"message": defaultErrorMessage,
		}
		if cfg.IsDevelopment() {
			body["error"] = fmt.Sprintf("%v", recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}

// NotFound answers unknown API routes with JSON and leaves other paths to
// the plain 404 page
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Route not found",
			})
			return
		}
		c.String(http.StatusNotFound, "404 page not found")
	}
}
