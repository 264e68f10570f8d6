package controllers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/kendall-kelly/restaurant-ms/utils"
	"github.com/rs/zerolog/log"
)

// MenuForm is the multipart (or JSON) body for creating and updating menu items
type MenuForm struct {
	ItemName  string      `json:"itemName" form:"itemName" binding:"notblank"`
	Price     json.Number `json:"price" form:"price" binding:"required"`
	Category  string      `json:"category" form:"category"`
	Available *bool       `json:"available" form:"available"`
}

// AllCategories disables the category filter when browsing the menu
const AllCategories = "all"

func parsePrice(value json.Number) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(string(value)), 64)
	if err != nil || price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, false
	}
	return price, true
}

func menuCategory(category string) string {
	if category = strings.TrimSpace(category); category == "" {
		return models.DefaultCategory
	}
	return category
}

// uploadMenuImage stores the optional "img" file. It answers the request
// itself and returns ok=false when the upload is rejected or fails.
func uploadMenuImage(c *gin.Context) (filename *string, ok bool) {
	fileHeader, err := c.FormFile("img")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, true
	}
	if err != nil {
		respondFieldError(c, "img", "Invalid image upload")
		return nil, false
	}

	name, err := services.GetImageService().UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondFieldError(c, "img", uploadErr.Message)
			return nil, false
		}
		respondStoreError(c, err, "Failed to upload image")
		return nil, false
	}
	return &name, true
}

func discardImage(filename *string) {
	if filename == nil {
		return
	}
	if err := services.GetImageService().DeleteImage(*filename); err != nil {
		log.Warn().Err(err).Str("img", *filename).Msg("Failed to delete menu image")
	}
}

// ListAllMenus handles GET /api/admin/menus - every item, newest first
func ListAllMenus(c *gin.Context) {
	menus, err := getStore().Menus.Select(c.Request.Context(), repository.Query{OrderBy: "created_at", Desc: true})
	if err != nil {
		respondStoreError(c, err, "Failed to fetch menus")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    withImageURLs(menus),
	})
}

// CreateMenu handles POST /api/admin/menus
func CreateMenu(c *gin.Context) {
	var form MenuForm
	if err := c.ShouldBind(&form); err != nil {
		respondValidation(c, err)
		return
	}
	price, ok := parsePrice(form.Price)
	if !ok {
		respondFieldError(c, "price", "price must be a non-negative number")
		return
	}

	img, ok := uploadMenuImage(c)
	if !ok {
		return
	}

	menu := &models.Menu{
		ItemName:  strings.TrimSpace(form.ItemName),
		Price:     price,
		Category:  menuCategory(form.Category),
		Img:       img,
		Available: true,
	}
	if err := getStore().Menus.Insert(c.Request.Context(), menu); err != nil {
		discardImage(img)
		respondStoreError(c, err, "Failed to create menu item")
		return
	}
	invalidateMenuCache(c)

	withImageURL(menu)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item created successfully",
		"data":    menu,
	})
}

// UpdateMenu handles PUT /api/admin/menus/:id. The stored image is kept
// unless a new one is uploaded.
func UpdateMenu(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var form MenuForm
	if err := c.ShouldBind(&form); err != nil {
		respondValidation(c, err)
		return
	}
	price, ok := parsePrice(form.Price)
	if !ok {
		respondFieldError(c, "price", "price must be a non-negative number")
		return
	}

	store := getStore()
	existing, err := store.Menus.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Menu item not found")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to update menu item")
		return
	}

	img, ok := uploadMenuImage(c)
	if !ok {
		return
	}

	fields := map[string]interface{}{
		"item_name": strings.TrimSpace(form.ItemName),
		"price":     price,
		"category":  menuCategory(form.Category),
	}
	if form.Available != nil {
		fields["available"] = *form.Available
	}
	if img != nil {
		fields["img"] = *img
	}

	menu, err := store.Menus.UpdateByID(c.Request.Context(), id, fields)
	if err != nil {
		discardImage(img)
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Menu item not found")
			return
		}
		respondStoreError(c, err, "Failed to update menu item")
		return
	}
	if img != nil {
		discardImage(existing.Img)
	}
	invalidateMenuCache(c)

	withImageURL(menu)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item updated successfully",
		"data":    menu,
	})
}

// DeleteMenu handles DELETE /api/admin/menus/:id
func DeleteMenu(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	store := getStore()
	menu, err := store.Menus.FindByID(c.Request.Context(), id)
	if err == nil {
		err = store.Menus.DeleteByID(c.Request.Context(), id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Menu item not found")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to delete menu item")
		return
	}
	discardImage(menu.Img)
	invalidateMenuCache(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item deleted successfully",
	})
}

// ListAvailableMenus handles GET /api/staff/menus - available items by category
func ListAvailableMenus(c *gin.Context) {
	menus, err := getStore().Menus.Select(c.Request.Context(), repository.Query{
		Filter:  repository.Filter{"available": true},
		OrderBy: "category",
	})
	if err != nil {
		respondStoreError(c, err, "Failed to fetch menus")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    withImageURLs(menus),
	})
}

// BrowseMenus handles GET /api/customer/menus - public, available items in
// alphabetical order, optionally limited to one category
func BrowseMenus(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		category = AllCategories
	}

	ctx := c.Request.Context()
	cache := services.GetMenuCache()
	if menus, hit, err := cache.GetMenus(ctx, category); err != nil {
		log.Warn().Err(err).Str("category", category).Msg("Menu cache read failed")
	} else if hit {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    menus,
		})
		return
	}

	filter := repository.Filter{"available": true}
	if category != AllCategories {
		filter["category"] = category
	}
	menus, err := getStore().Menus.Select(ctx, repository.Query{Filter: filter, OrderBy: "item_name"})
	if err != nil {
		respondStoreError(c, err, "Failed to fetch menus")
		return
	}
	menus = withImageURLs(menus)

	if err := cache.SetMenus(ctx, category, menus); err != nil {
		log.Warn().Err(err).Str("category", category).Msg("Menu cache write failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    menus,
	})
}
