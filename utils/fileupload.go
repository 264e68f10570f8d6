package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// AllowedImageFormats maps accepted image extensions to their content type
var AllowedImageFormats = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ImageContentType returns the content type for an image filename and
// whether the extension is allowed
func ImageContentType(filename string) (string, bool) {
	contentType, ok := AllowedImageFormats[strings.ToLower(filepath.Ext(filename))]
	return contentType, ok
}

// ValidateImageFile validates the uploaded file format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	if _, ok := ImageContentType(fileHeader.Filename); !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only png, jpg, jpeg, gif and webp images are allowed",
		}
	}

	return nil
}

// TimestampFilename derives a storage name from the current time and the
// extension of the client supplied filename
func TimestampFilename(original string, now time.Time) string {
	return fmt.Sprintf("%d%s", now.UnixMilli(), strings.ToLower(filepath.Ext(original)))
}

// UniqueFilename is TimestampFilename with a random suffix, for stores that
// cannot refuse an existing name
func UniqueFilename(original string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), suffix, strings.ToLower(filepath.Ext(original)))
}

// IsSafeFilename rejects names that could escape the upload directory
func IsSafeFilename(filename string) bool {
	return filename != "" &&
		!strings.Contains(filename, "..") &&
		!strings.Contains(filename, "/") &&
		!strings.Contains(filename, "\\")
}

// SaveUploadedFile saves the uploaded file under uploadDir with a
// timestamp-derived name and returns that name
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir string) (filename string, err error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Two uploads in the same millisecond get consecutive names.
	now := time.Now()
	var dst *os.File
	for attempt := 0; attempt < 100; attempt++ {
		filename = TimestampFilename(fileHeader.Filename, now.Add(time.Duration(attempt)*time.Millisecond))
		dst, err = os.OpenFile(filepath.Join(uploadDir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create destination file: %w", err)
		}
	}
	if dst == nil {
		return "", fmt.Errorf("failed to allocate a unique filename: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, nil
}

// GetImageURL returns the URL path for accessing a locally stored image
func GetImageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/images/%s", filename)
}
