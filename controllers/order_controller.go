package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/middleware"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/kendall-kelly/restaurant-ms/utils"
)

// PlaceOrderRequest represents the request body for placing an order.
// itemId and quantity accept numbers or numeric strings.
type PlaceOrderRequest struct {
	ItemID   json.Number `json:"itemId" binding:"required,posint"`
	ItemName string      `json:"itemName" binding:"notblank"`
	Quantity json.Number `json:"quantity" binding:"required,posint"`
}

// StatusRequest represents the request body of every status update
type StatusRequest struct {
	Status string `json:"status" binding:"notblank"`
}

// ListOrders handles GET /api/admin/orders - every order, newest first
func ListOrders(c *gin.Context) {
	listOrders(c, nil)
}

// ListStaffOrders handles GET /api/staff/orders - optionally by status
func ListStaffOrders(c *gin.Context) {
	var filter repository.Filter
	if status := c.Query("status"); status != "" {
		filter = repository.Filter{"status": status}
	}
	listOrders(c, filter)
}

// ListMyOrders handles GET /api/customer/orders - the customer's own orders
func ListMyOrders(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	listOrders(c, repository.Filter{"customer_id": user.ID})
}

func listOrders(c *gin.Context, filter repository.Filter) {
	orders, err := getStore().Orders.Select(c.Request.Context(), repository.Query{
		Filter:  filter,
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		respondStoreError(c, err, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// UpdateOrderStatus handles PUT /api/admin/orders/:id. Admins may set any
// status, the whitelist only applies to the staff route.
func UpdateOrderStatus(c *gin.Context) {
	updateOrderStatus(c, false)
}

// UpdateStaffOrderStatus handles PUT /api/staff/orders/:id
func UpdateStaffOrderStatus(c *gin.Context) {
	updateOrderStatus(c, true)
}

func updateOrderStatus(c *gin.Context, whitelist bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	status := strings.TrimSpace(req.Status)
	if whitelist && !models.IsValidOrderStatus(status) {
		respondError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	order, err := getStore().Orders.UpdateByID(c.Request.Context(), id, map[string]interface{}{"status": status})
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to update order status")
		return
	}

	user, _ := middleware.GetUser(c)
	publishEvent(c, services.OrderEvent{
		Type:       services.EventOrderStatusChanged,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		ChangedBy:  user.Role,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	})
}

// PlaceOrder handles POST /api/customer/orders
func PlaceOrder(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	itemID, _ := utils.ParsePositiveInt(string(req.ItemID))
	quantity, _ := utils.ParsePositiveInt(string(req.Quantity))

	order := &models.Order{
		CustomerID:   user.ID,
		CustomerName: user.Name,
		ItemID:       itemID,
		ItemName:     strings.TrimSpace(req.ItemName),
		Quantity:     int(quantity),
		Status:       models.OrderPending,
	}
	if err := getStore().Orders.Insert(c.Request.Context(), order); err != nil {
		respondStoreError(c, err, "Failed to place order")
		return
	}

	publishEvent(c, services.OrderEvent{
		Type:       services.EventOrderPlaced,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		ChangedBy:  user.Role,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"data":    order,
	})
}
