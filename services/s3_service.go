package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/kendall-kelly/restaurant-ms/config"
	"github.com/kendall-kelly/restaurant-ms/utils"
	"github.com/rs/zerolog/log"
)

// S3KeyPrefix is the folder menu images are written to inside the bucket
const S3KeyPrefix = "images/"

// S3Interface defines the interface for S3 operations
type S3Interface interface {
	UploadFile(fileHeader *multipart.FileHeader) (string, error)
	GetPresignedURL(filename string) (string, error)
	DeleteFile(filename string) error
}

// S3Service handles all S3-related operations
type S3Service struct {
	client *s3.Client
	bucket string
}

// NewS3Service creates an S3 client from the application configuration
func NewS3Service(ctx context.Context, cfg *appConfig.Config) (*S3Service, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Service{
		client: s3.NewFromConfig(awsConfig),
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// UploadFile uploads a file to S3 under a unique timestamp-derived name and
// returns that name
func (s *S3Service) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close uploaded file")
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	filename := utils.UniqueFilename(fileHeader.Filename, time.Now())
	contentType, _ := utils.ImageContentType(filename)

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(S3KeyPrefix + filename),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return filename, nil
}

// GetPresignedURL generates a presigned URL for accessing a private S3 object
// The URL expires after 1 hour
func (s *S3Service) GetPresignedURL(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(S3KeyPrefix + filename),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeleteFile deletes a file from S3
func (s *S3Service) DeleteFile(filename string) error {
	if filename == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(S3KeyPrefix + filename),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}
