package controllers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/middleware"
	"github.com/rs/zerolog/log"
)

// Page serves a prebuilt HTML file from viewsDir
func Page(viewsDir, name string) gin.HandlerFunc {
	path := filepath.Join(viewsDir, name)
	return func(c *gin.Context) {
		c.File(path)
	}
}

// LogoutPage handles GET /logout - ends the session and goes home
func LogoutPage(c *gin.Context) {
	if err := middleware.ClearSession(c); err != nil {
		log.Warn().Err(err).Msg("Failed to clear session on logout")
	}
	c.Redirect(http.StatusFound, "/")
}
