package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockS3Service is an in-memory stand-in for S3Service
type MockS3Service struct {
	uploadedFiles map[string][]byte // filename to file content
	mu            sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		uploadedFiles: make(map[string][]byte),
	}
}

// UploadFile simulates uploading a file to S3
func (m *MockS3Service) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	filename := fmt.Sprintf("mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.uploadedFiles[filename] = content
	m.mu.Unlock()

	return filename, nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockS3Service) GetPresignedURL(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.uploadedFiles[filename]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock S3: %s", filename)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s%s?mock=true", S3KeyPrefix, filename), nil
}

// DeleteFile simulates deleting a file from S3
func (m *MockS3Service) DeleteFile(filename string) error {
	if filename == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.uploadedFiles, filename)
	m.mu.Unlock()

	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockS3Service) FileExists(filename string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedFiles[filename]
	return exists
}
