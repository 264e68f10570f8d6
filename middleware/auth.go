package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/models"
)

// Permission names an operation a role may perform
type Permission string

const (
	PermManageUsers    Permission = "manage:users"
	PermManageMenus    Permission = "manage:menus"
	PermViewMenus      Permission = "view:menus"
	PermManageOrders   Permission = "manage:orders"
	PermProcessOrders  Permission = "process:orders"
	PermPlaceOrders    Permission = "place:orders"
	PermManageFeedback Permission = "manage:feedback"
	PermSubmitFeedback Permission = "submit:feedback"
	PermViewBills      Permission = "view:bills"
	PermProcessBills   Permission = "process:bills"
	PermOwnBills       Permission = "own:bills"
)

var rolePermissions = map[string][]Permission{
	models.RoleAdmin: {
		PermManageUsers, PermManageMenus, PermViewMenus, PermManageOrders,
		PermProcessOrders, PermManageFeedback, PermViewBills, PermProcessBills,
	},
	models.RoleStaff:    {PermViewMenus, PermProcessOrders, PermProcessBills},
	models.RoleCustomer: {PermViewMenus, PermPlaceOrders, PermOwnBills, PermSubmitFeedback},
}

// HasPermission reports whether role grants perm
func HasPermission(role string, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

const contextUserKey = "session_user"

// guard rejects requests without a session, or whose role lacks perm when
// perm is set. Page guards redirect home instead of answering with JSON.
func guard(perm Permission, forbiddenMessage string, page bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetSessionUser(c)
		if !ok {
			reject(c, http.StatusUnauthorized, "Unauthorized", page)
			return
		}
		if perm != "" && !HasPermission(user.Role, perm) {
			reject(c, http.StatusForbidden, forbiddenMessage, page)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func reject(c *gin.Context, status int, message string, page bool) {
	if page {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// Require allows any session whose role grants perm
func Require(perm Permission, forbiddenMessage string) gin.HandlerFunc {
	return guard(perm, forbiddenMessage, false)
}

// RequireAuth allows any logged in user
func RequireAuth() gin.HandlerFunc {
	return guard("", "", false)
}

// RequireAdmin allows admins only
func RequireAdmin() gin.HandlerFunc {
	return guard(PermManageUsers, "Admin access required", false)
}

// RequireStaff allows staff and admins
func RequireStaff() gin.HandlerFunc {
	return guard(PermProcessOrders, "Staff access required", false)
}

// RequireCustomer allows customers only
func RequireCustomer() gin.HandlerFunc {
	return guard(PermPlaceOrders, "Customer access required", false)
}

// PageRequireAdmin redirects to the home page unless the user is an admin
func PageRequireAdmin() gin.HandlerFunc {
	return guard(PermManageUsers, "", true)
}

// PageRequireStaff redirects to the home page unless the user is staff or admin
func PageRequireStaff() gin.HandlerFunc {
	return guard(PermProcessOrders, "", true)
}

// PageRequireCustomer redirects to the home page unless the user is a customer
func PageRequireCustomer() gin.HandlerFunc {
	return guard(PermPlaceOrders, "", true)
}

// GetUser returns the session user a guard stored in the context
func GetUser(c *gin.Context) (SessionUser, error) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return SessionUser{}, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(SessionUser)
	if !ok {
		return SessionUser{}, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}
	return user, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
