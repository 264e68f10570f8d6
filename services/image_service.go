package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/kendall-kelly/restaurant-ms/utils"
)

// ImageService handles all image-related operations including upload, retrieval, and deletion
type ImageService interface {
	// UploadImage validates and stores an image file, returns the stored filename
	UploadImage(fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a URL for accessing an uploaded image
	GetImageURL(filename string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(filename string) error
}

// LocalImageService stores images in a directory served by the application
type LocalImageService struct {
	dir string
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// NewLocalImageService stores images under dir
func NewLocalImageService(dir string) *LocalImageService {
	return &LocalImageService{dir: dir}
}

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// Dir returns the directory images are written to
func (s *LocalImageService) Dir() string {
	return s.dir
}

// UploadImage validates the image and writes it under a timestamp-derived name
func (s *LocalImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename, err := utils.SaveUploadedFile(fileHeader, s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return filename, nil
}

// GetImageURL returns the public path the image is served from
func (s *LocalImageService) GetImageURL(filename string) (string, error) {
	return utils.GetImageURL(filename), nil
}

// DeleteImage removes the file, a missing file is not an error
func (s *LocalImageService) DeleteImage(filename string) error {
	if filename == "" {
		return nil
	}
	if !utils.IsSafeFilename(filename) {
		return fmt.Errorf("invalid image filename %q", filename)
	}

	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return filename, nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(filename)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(filename string) error {
	if filename == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(filename); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
