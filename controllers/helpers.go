package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/kendall-kelly/restaurant-ms/config"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/kendall-kelly/restaurant-ms/utils"
	"github.com/rs/zerolog/log"
)

// eventTimeout bounds how long a request waits on the event publisher
const eventTimeout = 3 * time.Second

// normalizer is a request body that tidies its own fields
type normalizer interface {
	Normalize()
}

// bindNormalizedJSON decodes the body into req and normalizes it before
// the binding rules run
func bindNormalizedJSON(c *gin.Context, req normalizer) error {
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		return err
	}
	req.Normalize()
	return binding.Validator.ValidateStruct(req)
}

func getStore() *repository.Store {
	return repository.NewStore(config.GetDB())
}

// respondValidation answers 400 with per field messages
func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  utils.ValidationErrors(err),
	})
}

func respondFieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  []utils.FieldError{{Field: field, Message: message}},
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondStoreError hands err to the error handler, which answers 500
// with message
func respondStoreError(c *gin.Context, err error, message string) {
	_ = c.Error(err).SetMeta(message)
}

// parseIDParam reads the :id path parameter, answering 400 when it is not a
// positive integer
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := utils.ParsePositiveInt(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// publishEvent sends event without failing the request
func publishEvent(c *gin.Context, event services.OrderEvent) {
	event.Timestamp = time.Now()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), eventTimeout)
	defer cancel()

	if err := services.GetEventPublisher().Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("type", event.Type).
			Uint("order_id", event.OrderID).
			Msg("Failed to publish order event")
	}
}

// withImageURLs fills the computed image_url of every menu item that has
// an image
func withImageURLs(menus []models.Menu) []models.Menu {
	for i := range menus {
		withImageURL(&menus[i])
	}
	return menus
}

func withImageURL(menu *models.Menu) {
	imageService := services.GetImageService()
	if menu.Img == nil || *menu.Img == "" || imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*menu.Img)
	if err != nil {
		log.Warn().Err(err).Str("img", *menu.Img).Msg("Failed to build image URL")
		return
	}
	menu.ImageURL = &url
}

func invalidateMenuCache(c *gin.Context) {
	if err := services.GetMenuCache().Invalidate(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate menu cache")
	}
}
