package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/kendall-kelly/restaurant-ms/utils"
)

// MockImageService keeps uploaded images in memory for controller tests
type MockImageService struct {
	uploadedImages map[string][]byte // filename to file content
	deleted        []string
	mu             sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		uploadedImages: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// UploadImage simulates uploading an image
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	filename := fmt.Sprintf("mock_%d_%s", len(m.uploadedImages)+len(m.deleted), fileHeader.Filename)
	m.uploadedImages[filename] = content

	return filename, nil
}

// GetImageURL simulates generating a URL for an image
func (m *MockImageService) GetImageURL(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	return fmt.Sprintf("/images/%s", filename), nil
}

// DeleteImage simulates deleting an image
func (m *MockImageService) DeleteImage(filename string) error {
	if filename == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.uploadedImages, filename)
	m.deleted = append(m.deleted, filename)
	m.mu.Unlock()

	return nil
}

// ImageExists checks if an image exists in mock storage
func (m *MockImageService) ImageExists(filename string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedImages[filename]
	return exists
}

// Deleted returns the filenames passed to DeleteImage
func (m *MockImageService) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deleted...)
}
