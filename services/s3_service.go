package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"card_game_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 5 * time.Minute

// CardImageService issues presigned S3 URLs for card front/back art
type CardImageService struct {
	Presigner *s3.PresignClient
	Bucket    string
	now       func() time.Time
}

func NewCardImageService(client *s3.Client, bucket string) *CardImageService {
	return &CardImageService{
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
		now:       time.Now,
	}
}

// GenerateUploadURL generates a presigned URL for uploading a card image
func (cis *CardImageService) GenerateUploadURL(ctx context.Context, fileName, fileType string) (string, string, error) {
	base := path.Base(strings.TrimSpace(fileName))
	if base == "" || base == "." || base == "/" || fileType == "" {
		return "", "", fmt.Errorf("%w: file_name and file_type are required", ErrInvalidInput)
	}

	key := models.CardImagePrefix + cis.now().UTC().Format("20060102150405") + "-" + uuid.NewString() + "-" + base
	params := &s3.PutObjectInput{
		Bucket:      aws.String(cis.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigned, err := cis.Presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presigned.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading a card image
func (cis *CardImageService) GenerateReadURL(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, models.CardImagePrefix) || len(key) == len(models.CardImagePrefix) {
		return "", fmt.Errorf("%w: key must be a card image key", ErrInvalidInput)
	}

	params := &s3.GetObjectInput{
		Bucket: aws.String(cis.Bucket),
		Key:    aws.String(key),
	}
	presigned, err := cis.Presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return presigned.URL, nil
}
