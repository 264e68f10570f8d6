package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUploadedImageLocal(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	dir := t.TempDir()
	services.SetImageService(services.NewLocalImageService(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1700000000000.png"), []byte("png bytes"), 0644))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"Existing image", "/images/1700000000000.png", http.StatusOK},
		{"Missing image", "/images/404.png", http.StatusNotFound},
		{"Traversal attempt", "/images/..png", http.StatusBadRequest},
		{"Not an image", "/images/notes.txt", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.path, nil, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "png bytes", w.Body.String())
				assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
				assert.Contains(t, w.Header().Get("Cache-Control"), "max-age")
			}
		})
	}
}

func TestGetUploadedImageRemote(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	// Any non local store redirects to its own URL
	services.NewMockImageService().SetAsMockForTesting()

	w := doRequest(router, http.MethodGet, "/images/pizza.jpg", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/images/pizza.jpg", w.Header().Get("Location"))
}
