package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/middleware"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
	"github.com/kendall-kelly/restaurant-ms/services"
)

var errEmailTaken = errors.New("email already registered")

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Normalize lower-cases and trims the email
func (r *RegisterRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// Normalize lower-cases and trims the email
func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// createAccount inserts a user with a hashed password. The lookup only
// gives a friendly answer, the unique index on email decides.
func createAccount(ctx context.Context, store *repository.Store, name, email, password, role string) (*models.User, error) {
	_, err := store.Users.First(ctx, repository.Filter{"email": email})
	if err == nil {
		return nil, errEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := store.Users.Insert(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, errEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Register handles POST /api/auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindNormalizedJSON(c, &req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	if !models.IsValidRole(req.Role) {
		respondFieldError(c, "role", "role must be one of: admin, staff, customer")
		return
	}

	user, err := createAccount(c.Request.Context(), getStore(), req.Name, req.Email, req.Password, req.Role)
	if errors.Is(err, errEmailTaken) {
		respondError(c, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Registration failed")
		return
	}

	if err := middleware.SetSessionUser(c, user); err != nil {
		respondStoreError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful",
		"user":    user.ToSummary(),
	})
}

// Login handles POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := bindNormalizedJSON(c, &req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := getStore().Users.First(c.Request.Context(), repository.Filter{"email": req.Email})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondStoreError(c, err, "Login failed")
		return
	}
	if user == nil || !services.CheckPassword(req.Password, user.PasswordHash) {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := middleware.SetSessionUser(c, user); err != nil {
		respondStoreError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user.ToSummary(),
	})
}

// Logout handles POST /api/auth/logout
func Logout(c *gin.Context) {
	if err := middleware.ClearSession(c); err != nil {
		respondError(c, http.StatusInternalServerError, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

// Session handles GET /api/auth/session
func Session(c *gin.Context) {
	user, ok := middleware.GetSessionUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
