package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/kendall-kelly/restaurant-ms/utils"
)

// GetUploadedImage handles GET /images/:filename - serves uploaded menu images
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	// Security: Prevent directory traversal attacks
	if !utils.IsSafeFilename(filename) {
		respondError(c, http.StatusBadRequest, "Invalid filename")
		return
	}

	contentType, ok := utils.ImageContentType(filename)
	if !ok {
		respondError(c, http.StatusBadRequest, "Only image files are supported")
		return
	}

	imageService := services.GetImageService()
	local, isLocal := imageService.(*services.LocalImageService)
	if !isLocal {
		if imageService == nil {
			respondError(c, http.StatusNotFound, "Image not found")
			return
		}
		url, err := imageService.GetImageURL(filename)
		if err != nil {
			respondStoreError(c, err, "Failed to locate image")
			return
		}
		c.Redirect(http.StatusFound, url)
		return
	}

	filePath := filepath.Join(local.Dir(), filename)
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		respondError(c, http.StatusNotFound, "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
