package controllers

import (
	"bytes"
	"image/png"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBill(t *testing.T, db *gorm.DB, customer *models.User, item string, total float64) models.Bill {
	t.Helper()
	bill := models.Bill{
		OrderID:    1,
		CustomerID: customer.ID,
		ItemName:   item,
		TotalPrice: total,
		Status:     models.BillUnpaid,
	}
	require.NoError(t, db.Create(&bill).Error)
	return bill
}

func billPath(bill models.Bill, suffix string) string {
	return "/api/customer/bills/" + strconv.Itoa(int(bill.ID)) + suffix
}

func TestCreateBill(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
	}{
		{"Creates an unpaid bill", map[string]interface{}{"orderId": 4, "itemName": "Pizza", "totalPrice": 25}, http.StatusOK},
		{"Order id as string", map[string]interface{}{"orderId": "4", "itemName": "Pizza", "totalPrice": 0}, http.StatusOK},
		{"Total as string", map[string]interface{}{"orderId": "4", "itemName": "Pizza", "totalPrice": "10.5"}, http.StatusOK},
		{"Negative total as string", map[string]interface{}{"orderId": 4, "itemName": "Pizza", "totalPrice": "-2"}, http.StatusBadRequest},
		{"Non numeric total", map[string]interface{}{"orderId": 4, "itemName": "Pizza", "totalPrice": "ten"}, http.StatusBadRequest},
		{"Negative total", map[string]interface{}{"orderId": 4, "itemName": "Pizza", "totalPrice": -1}, http.StatusBadRequest},
		{"Missing total", map[string]interface{}{"orderId": 4, "itemName": "Pizza"}, http.StatusBadRequest},
		{"Missing order", map[string]interface{}{"itemName": "Pizza", "totalPrice": 25}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			router := setupRouter()
			jane := createUser(t, db, "Jane", "jane@example.com", models.RoleCustomer)

			w := doRequest(router, http.MethodPost, "/api/customer/bills", tt.requestBody, loginAs(t, router, jane))
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}

			data := decodeBody(t, w)["data"].(map[string]interface{})
			assert.Equal(t, float64(4), data["order_id"])
			assert.Equal(t, float64(jane.ID), data["customer_id"])
			assert.Equal(t, models.BillUnpaid, data["status"])
			assert.Nil(t, data["paid_at"])

			var stored models.Bill
			require.NoError(t, db.First(&stored, uint(data["id"].(float64))).Error)
			assert.Equal(t, data["total_price"], stored.TotalPrice)
		})
	}
}

func TestPayBill(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()
	jane := createUser(t, db, "Jane", "jane@example.com", models.RoleCustomer)
	bill := seedBill(t, db, jane, "Pizza", 25)
	cookies := loginAs(t, router, jane)

	publisher := &services.MockEventPublisher{}
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e services.OrderEvent) bool {
		return e.Type == services.EventBillPaid && e.BillID == bill.ID && e.Status == models.BillPaid
	})).Return(nil).Once()
	services.SetEventPublisher(publisher)

	w := doRequest(router, http.MethodPut, billPath(bill, "/pay"), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, models.BillPaid, data["status"])
	assert.NotNil(t, data["paid_at"])
	publisher.AssertExpectations(t)

	var stored models.Bill
	require.NoError(t, db.First(&stored, bill.ID).Error)
	require.NotNil(t, stored.PaidAt)
	paidAt := *stored.PaidAt

	w = doRequest(router, http.MethodPut, billPath(bill, "/pay"), nil, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bill already paid", decodeBody(t, w)["message"])

	require.NoError(t, db.First(&stored, bill.ID).Error)
	assert.True(t, paidAt.Equal(*stored.PaidAt))
}

func TestBillOwnership(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()
	jane := createUser(t, db, "Jane", "jane@example.com", models.RoleCustomer)
	joe := createUser(t, db, "Joe", "joe@example.com", models.RoleCustomer)
	janesBill := seedBill(t, db, jane, "Pizza", 25)
	seedBill(t, db, joe, "Burger", 9)
	cookies := loginAs(t, router, joe)

	w := doRequest(router, http.MethodPut, billPath(janesBill, "/pay"), nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Bill not found", decodeBody(t, w)["message"])

	w = doRequest(router, http.MethodGet, billPath(janesBill, "/qrcode"), nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/customer/bills", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Burger"}, itemNames(t, decodeBody(t, w)))

	var stored models.Bill
	require.NoError(t, db.First(&stored, janesBill.ID).Error)
	assert.Equal(t, models.BillUnpaid, stored.Status)
}

func TestGetBillQRCode(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()
	jane := createUser(t, db, "Jane", "jane@example.com", models.RoleCustomer)
	bill := seedBill(t, db, jane, "Pizza", 25)

	w := doRequest(router, http.MethodGet, billPath(bill, "/qrcode"), nil, loginAs(t, router, jane))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, services.BillQRSize, img.Bounds().Dx())
}

func TestUpdateBillStatus(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()
	jane := createUser(t, db, "Jane", "jane@example.com", models.RoleCustomer)
	cookies := loginAs(t, router, createUser(t, db, "Sam", "sam@example.com", models.RoleStaff))
	bill := seedBill(t, db, jane, "Pizza", 25)
	path := "/api/staff/bills/" + strconv.Itoa(int(bill.ID))

	w := doRequest(router, http.MethodPut, path, map[string]interface{}{"status": "paid"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.Bill
	require.NoError(t, db.First(&stored, bill.ID).Error)
	assert.Equal(t, models.BillPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.WithinDuration(t, time.Now(), *stored.PaidAt, time.Minute)

	w = doRequest(router, http.MethodPut, path, map[string]interface{}{"status": "unpaid"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&stored, bill.ID).Error)
	assert.Equal(t, models.BillUnpaid, stored.Status)
	assert.Nil(t, stored.PaidAt)

	w = doRequest(router, http.MethodPut, path, map[string]interface{}{"status": "refunded"}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", decodeBody(t, w)["message"])

	w = doRequest(router, http.MethodPut, "/api/staff/bills/999", map[string]interface{}{"status": "paid"}, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBillListsAreScoped(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter()
	jane := createUser(t, db, "Jane", "jane@example.com", models.RoleCustomer)
	staff := createUser(t, db, "Sam", "sam@example.com", models.RoleStaff)
	admin := createUser(t, db, "Admin", "admin@example.com", models.RoleAdmin)
	seedBill(t, db, jane, "Pizza", 25)
	paid := seedBill(t, db, jane, "Cola", 2)
	require.NoError(t, db.Model(&paid).Update("status", models.BillPaid).Error)

	w := doRequest(router, http.MethodGet, "/api/staff/bills?status=paid", nil, loginAs(t, router, staff))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Cola"}, itemNames(t, decodeBody(t, w)))

	w = doRequest(router, http.MethodGet, "/api/admin/bills", nil, loginAs(t, router, admin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, decodeBody(t, w)), 2)

	w = doRequest(router, http.MethodGet, "/api/admin/bills", nil, loginAs(t, router, staff))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
