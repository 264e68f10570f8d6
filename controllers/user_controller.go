package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
)

// CreateStaffRequest represents the request body for creating a staff account
type CreateStaffRequest struct {
	Name     string `json:"name" binding:"notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Normalize lower-cases and trims the email
func (r *CreateStaffRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// ListUsers handles GET /api/admin/users - lists accounts, optionally by role
func ListUsers(c *gin.Context) {
	query := repository.Query{OrderBy: "created_at", Desc: true}
	if role := c.Query("role"); role != "" {
		query.Filter = repository.Filter{"role": role}
	}

	users, err := getStore().Users.Select(c.Request.Context(), query)
	if err != nil {
		respondStoreError(c, err, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// CreateStaff handles POST /api/admin/staff
func CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := bindNormalizedJSON(c, &req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := createAccount(c.Request.Context(), getStore(), req.Name, req.Email, req.Password, models.RoleStaff)
	if errors.Is(err, errEmailTaken) {
		respondError(c, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to create staff account")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Staff account created successfully",
		"data":    user.ToSummary(),
	})
}

// DeleteUser handles DELETE /api/admin/users/:id
func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	err := getStore().Users.DeleteByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}
