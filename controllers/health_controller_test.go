package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kendall-kelly/restaurant-ms/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB installs a GORM handle backed by sqlmock
func setupMockDB(t *testing.T, monitorPings bool) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(monitorPings))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	config.SetDB(db)
	return mock
}

func TestHealthCheck(t *testing.T) {
	setupTestDB(t)
	w := doRequest(setupRouter(), http.MethodGet, "/api/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.True(t, response["success"].(bool))
	assert.Equal(t, "Restaurant Management API is running", response["message"])
}

func TestDatabaseStatus(t *testing.T) {
	setupTestDB(t)
	w := doRequest(setupRouter(), http.MethodGet, "/api/database/status", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "Database connected", response["message"])
	tables := response["tables"].([]interface{})
	for _, table := range []string{"users", "menus", "orders", "bills", "feedbacks"} {
		assert.Contains(t, tables, table)
	}
}

func TestDatabaseStatusPingFailure(t *testing.T) {
	setupTestDB(t)
	mock := setupMockDB(t, true)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	w := doRequest(setupRouter(), http.MethodGet, "/api/database/status", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Database connection failed", decodeBody(t, w)["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFailuresAnswer500(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		body        interface{}
		query       string
		expectedMsg string
	}{
		{
			name:        "Browse menus",
			method:      http.MethodGet,
			path:        "/api/customer/menus",
			query:       `SELECT \* FROM "menus"`,
			expectedMsg: "Failed to fetch menus",
		},
		{
			name:        "Register",
			method:      http.MethodPost,
			path:        "/api/auth/register",
			body:        map[string]interface{}{"name": "Jane", "email": "jane@example.com", "password": "secret123"},
			query:       `SELECT \* FROM "users"`,
			expectedMsg: "Registration failed",
		},
		{
			name:        "Login",
			method:      http.MethodPost,
			path:        "/api/auth/login",
			body:        map[string]interface{}{"email": "jane@example.com", "password": "secret123"},
			query:       `SELECT \* FROM "users"`,
			expectedMsg: "Login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDB(t)
			router := setupRouter()
			mock := setupMockDB(t, false)
			mock.ExpectQuery(tt.query).WillReturnError(errors.New("connection reset by peer"))

			w := doRequest(router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			response := decodeBody(t, w)
			assert.Equal(t, false, response["success"])
			assert.Equal(t, tt.expectedMsg, response["message"])
			assert.NotContains(t, response, "error")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
