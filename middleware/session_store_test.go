package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter(backend SessionBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Sessions(testConfig(), backend))
	router.POST("/login", func(c *gin.Context) {
		user := &models.User{ID: 7, Name: "Jane", Role: models.RoleCustomer}
		if err := SetSessionUser(c, user); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	router.POST("/logout", func(c *gin.Context) {
		if err := ClearSession(c); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	router.GET("/me", func(c *gin.Context) {
		user, ok := GetSessionUser(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, user)
	})
	return router
}

func serve(router *gin.Engine, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServerStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backends := map[string]SessionBackend{
		"memory": NewMemoryBackend(),
		"redis":  NewRedisBackend(client, "test:session"),
	}

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			router := sessionRouter(backend)

			w := serve(router, http.MethodPost, "/login", nil)
			require.Equal(t, http.StatusNoContent, w.Code)
			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, SessionCookieName, cookies[0].Name)
			assert.NotContains(t, cookies[0].Value, "Jane")

			w = serve(router, http.MethodGet, "/me", cookies)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"id":7,"name":"Jane","role":"customer"}`, w.Body.String())

			w = serve(router, http.MethodPost, "/logout", cookies)
			require.Equal(t, http.StatusNoContent, w.Code)

			// The old cookie no longer resolves to a session
			w = serve(router, http.MethodGet, "/me", cookies)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestServerStoreRejectsForgedCookie(t *testing.T) {
	router := sessionRouter(NewMemoryBackend())
	forged := []*http.Cookie{{Name: SessionCookieName, Value: "not-a-signed-id"}}

	w := serve(router, http.MethodGet, "/me", forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServerStoreUnknownSession(t *testing.T) {
	// A cookie signed with the same secret but issued by another backend
	router := sessionRouter(NewMemoryBackend())
	w := serve(router, http.MethodPost, "/login", nil)
	cookies := w.Result().Cookies()

	other := sessionRouter(NewMemoryBackend())
	w = serve(other, http.MethodGet, "/me", cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRedisBackendStoresWithTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend := NewRedisBackend(client, "test:session")
	ctx := context.Background()

	require.NoError(t, backend.Store(ctx, "abc", "payload", time.Minute))
	assert.True(t, mr.Exists("test:session:abc"))
	assert.Equal(t, time.Minute, mr.TTL("test:session:abc"))

	payload, found, err := backend.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "payload", payload)

	mr.FastForward(2 * time.Minute)
	_, found, err = backend.Load(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, backend.Store(ctx, "def", "payload", time.Minute))
	require.NoError(t, backend.Delete(ctx, "def"))
	assert.False(t, mr.Exists("test:session:def"))
}

func TestMemoryBackendExpiry(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	require.NoError(t, backend.Store(ctx, "live", "a", time.Hour))
	require.NoError(t, backend.Store(ctx, "stale", "b", -time.Second))
	assert.Equal(t, 2, backend.Len())

	payload, found, err := backend.Load(ctx, "live")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", payload)

	_, found, err = backend.Load(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, backend.Len())

	require.NoError(t, backend.Delete(ctx, "live"))
	assert.Equal(t, 0, backend.Len())
}
