package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/kgn-corner/restaurant-api/utils"
)

// ImageService handles menu image upload, retrieval and deletion
type ImageService interface {
	// UploadMenuImage validates and uploads an image, returns the storage key
	UploadMenuImage(ctx context.Context, menuItemID uint, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a time-limited URL for an uploaded image
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
	return imageServiceInstance
}

// GetImageService returns the image service, or nil when storage is not configured
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadMenuImage validates and uploads an image file to S3
func (s *S3ImageService) UploadMenuImage(ctx context.Context, menuItemID uint, fileHeader *multipart.FileHeader) (string, error) {
	contentType, err := utils.ValidateImageFile(fileHeader)
	if err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	key := utils.MenuImageKey(menuItemID, fileHeader.Filename, time.Now())
	if err := s.s3Service.UploadFile(ctx, key, contentType, file); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
