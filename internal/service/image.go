package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/forkful/backend/config"
)

// ImageService stores recipe images submitted as base64 data URLs.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// Store resolves the image field of a recipe payload. A
// data:<mime>;base64,<payload> value is decoded and uploaded to S3 under a
// fresh object key; anything else is assumed to already be a stored
// reference and passed through unchanged.
func (s *ImageService) Store(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	meta, payload, found := strings.Cut(image, ",")
	if !found {
		return "", Validationf("image must be a base64 data URL")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", Validationf("image payload is not valid base64")
	}

	ext := "png"
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		ext = sub
	}
	key := fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), ext)
	return s.upload(ctx, data, key, contentType)
}

// upload puts the image bytes in S3 and returns the public URL.
func (s *ImageService) upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ImageService] stored recipe image at %s", publicURL)
	return publicURL, nil
}
