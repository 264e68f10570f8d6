package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/config"
	"github.com/kendall-kelly/restaurant-ms/models"
)

// SessionCookieName is the cookie carrying the session id
const SessionCookieName = "res_ms_sid"

// Keys stored in the server side session
const (
	sessionUserID   = "userId"
	sessionUserRole = "userRole"
	sessionUserName = "userName"
)

// SessionUser is the identity snapshot stored in a session at login time
type SessionUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Sessions returns the session middleware. Values live in backend, which
// defaults to process memory, and the cookie only holds a signed session id.
func Sessions(cfg *config.Config, backend SessionBackend) gin.HandlerFunc {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	store := NewServerStore(backend, []byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionCookieName, store)
}

// SetSessionUser populates the session from user and saves it
func SetSessionUser(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	session.Set(sessionUserRole, user.Role)
	session.Set(sessionUserName, user.Name)
	return session.Save()
}

// GetSessionUser returns the user stored in the session, if any
func GetSessionUser(c *gin.Context) (SessionUser, bool) {
	session := sessions.Default(c)
	id, ok := session.Get(sessionUserID).(uint)
	if !ok || id == 0 {
		return SessionUser{}, false
	}
	role, _ := session.Get(sessionUserRole).(string)
	name, _ := session.Get(sessionUserName).(string)
	return SessionUser{ID: id, Name: name, Role: role}, true
}

// ClearSession empties the session and expires its cookie
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
