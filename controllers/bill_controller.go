package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/config"
	"github.com/kendall-kelly/restaurant-ms/middleware"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/kendall-kelly/restaurant-ms/utils"
)

// CreateBillRequest represents the request body for creating a bill
type CreateBillRequest struct {
	OrderID    json.Number `json:"orderId" binding:"required,posint"`
	ItemName   string      `json:"itemName" binding:"notblank"`
	TotalPrice json.Number `json:"totalPrice" binding:"required"`
}

// ListBills handles GET /api/admin/bills - every bill, newest first
func ListBills(c *gin.Context) {
	listBills(c, nil)
}

// ListStaffBills handles GET /api/staff/bills - optionally by status
func ListStaffBills(c *gin.Context) {
	var filter repository.Filter
	if status := c.Query("status"); status != "" {
		filter = repository.Filter{"status": status}
	}
	listBills(c, filter)
}

// ListMyBills handles GET /api/customer/bills
func ListMyBills(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	listBills(c, repository.Filter{"customer_id": user.ID})
}

func listBills(c *gin.Context, filter repository.Filter) {
	bills, err := getStore().Bills.Select(c.Request.Context(), repository.Query{
		Filter:  filter,
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		respondStoreError(c, err, "Failed to fetch bills")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bills,
	})
}

// UpdateBillStatus handles PUT /api/staff/bills/:id. Marking a bill paid
// stamps paid_at, marking it unpaid clears it.
func UpdateBillStatus(c *gin.Context) {
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
	if !models.IsValidBillStatus(status) {
		respondError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	fields := map[string]interface{}{"status": status, "paid_at": nil}
	if status == models.BillPaid {
		fields["paid_at"] = time.Now()
	}

	bill, err := getStore().Bills.UpdateByID(c.Request.Context(), id, fields)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Bill not found")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to update bill status")
		return
	}

	if bill.Status == models.BillPaid {
		user, _ := middleware.GetUser(c)
		publishBillPaid(c, bill, user.Role)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bill status updated successfully",
		"data":    bill,
	})
}

// CreateBill handles POST /api/customer/bills
func CreateBill(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	orderID, _ := utils.ParsePositiveInt(string(req.OrderID))
	totalPrice, ok := parsePrice(req.TotalPrice)
	if !ok {
		respondFieldError(c, "totalPrice", "totalPrice must be a non-negative number")
		return
	}

	bill := &models.Bill{
		OrderID:    orderID,
		CustomerID: user.ID,
		ItemName:   strings.TrimSpace(req.ItemName),
		TotalPrice: totalPrice,
		Status:     models.BillUnpaid,
	}
	if err := getStore().Bills.Insert(c.Request.Context(), bill); err != nil {
		respondStoreError(c, err, "Failed to create bill")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bill created successfully",
		"data":    bill,
	})
}

// findOwnBill loads a bill of the session customer. It answers 404 for
// bills that are missing or belong to someone else.
func findOwnBill(c *gin.Context) (*models.Bill, bool) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}

	bill, err := getStore().Bills.First(c.Request.Context(), repository.Filter{"id": id, "customer_id": user.ID})
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Bill not found")
		return nil, false
	}
	if err != nil {
		respondStoreError(c, err, "Failed to fetch bill")
		return nil, false
	}
	return bill, true
}

// PayBill handles PUT /api/customer/bills/:id/pay
func PayBill(c *gin.Context) {
	bill, ok := findOwnBill(c)
	if !ok {
		return
	}
	if bill.Status == models.BillPaid {
		respondError(c, http.StatusBadRequest, "Bill already paid")
		return
	}

	paid, err := getStore().Bills.UpdateByID(c.Request.Context(), bill.ID, map[string]interface{}{
		"status":  models.BillPaid,
		"paid_at": time.Now(),
	})
	if err != nil {
		respondStoreError(c, err, "Failed to pay bill")
		return
	}
	publishBillPaid(c, paid, models.RoleCustomer)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bill paid successfully",
		"data":    paid,
	})
}

// GetBillQRCode handles GET /api/customer/bills/:id/qrcode
func GetBillQRCode(c *gin.Context) {
	bill, ok := findOwnBill(c)
	if !ok {
		return
	}

	baseURL := ""
	if cfg := config.GetConfig(); cfg != nil {
		baseURL = cfg.PublicBaseURL
	}

	png, err := services.GenerateBillQR(baseURL, bill.ID)
	if err != nil {
		respondStoreError(c, err, "Failed to generate QR code")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func publishBillPaid(c *gin.Context, bill *models.Bill, role string) {
	publishEvent(c, services.OrderEvent{
		Type:       services.EventBillPaid,
		OrderID:    bill.OrderID,
		BillID:     bill.ID,
		CustomerID: bill.CustomerID,
		Status:     bill.Status,
		ChangedBy:  role,
	})
}
