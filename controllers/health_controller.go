package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/config"
)

// HealthCheck handles GET /api/health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Restaurant Management API is running",
	})
}

// DatabaseStatus handles GET /api/database/status - checks connectivity and lists tables
func DatabaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		respondError(c, http.StatusInternalServerError, "Database not initialized")
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get database instance")
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "Database connection failed")
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to query tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
