package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kendall-kelly/restaurant-ms/config"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestConfig returns a configuration for tests running two levels below
// the module root
func NewTestConfig() *config.Config {
	return &config.Config{
		GoEnv:         "test",
		Port:          "8080",
		LogLevel:      "error",
		DBDriver:      config.DriverSQLite,
		SessionSecret: "integration-test-secret",
		SessionTTL:    time.Hour,
		PublicDir:     "../../public",
		ViewsDir:      "../../views",
		PublicBaseURL: "http://restaurant.test",
		ImageStorage:  "local",
		MenuCacheTTL:  time.Minute,
	}
}

// NewTestDB opens a migrated in-memory database, installs it as the
// application database and resets the shared services
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	RequireTestEnvironment(t)

	db, err := gorm.Open(sqlite.Open(TestDSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.Migrate(db))

	config.SetDB(db)
	services.PasswordCost = bcrypt.MinCost
	services.SetMenuCache(nil)
	services.SetEventPublisher(nil)
	services.NewMockImageService().SetAsMockForTesting()
	return db
}

// CreateUser inserts an account whose password is "secret123"
func CreateUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()
	hash, err := services.HashPassword("secret123")
	require.NoError(t, err)
	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Client sends requests to a handler and keeps the session cookie between
// them like a browser would
type Client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

// NewClient creates a client without a session
func NewClient(t *testing.T, handler http.Handler) *Client {
	return &Client{t: t, handler: handler, cookies: make(map[string]*http.Cookie)}
}

// JSON sends body encoded as JSON, a nil body sends no content
func (c *Client) JSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.Do(req)
}

// Multipart sends fields and an optional "img" file as multipart form data
func (c *Client) Multipart(method, path string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	c.t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(c.t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("img", filename)
		require.NoError(c.t, err)
		_, err = part.Write(content)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, writer.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.Do(req)
}

// Do serves req and records the cookies set by the response
func (c *Client) Do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

// Login signs the client in, failing the test on any error
func (c *Client) Login(email string) {
	c.t.Helper()
	w := c.JSON(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret123"})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
}

// Cookies returns the cookies currently held by the client
func (c *Client) Cookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(c.cookies))
	for _, cookie := range c.cookies {
		cookies = append(cookies, cookie)
	}
	return cookies
}

// DecodeJSON parses a JSON object response
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

// Data returns the "data" field of a JSON response as a list
func Data(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	data, ok := DecodeJSON(t, w)["data"].([]interface{})
	require.True(t, ok, "data is not a list: %s", w.Body.String())
	return data
}
