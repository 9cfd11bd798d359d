package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"familyhub/internal/models"
)

var (
	// ErrStorageDisabled is returned when no bucket is configured
	ErrStorageDisabled = errors.New("media storage is not configured")
	// ErrUnsupportedMedia is returned for content that is not image, video or audio
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrNoFamily is returned when the uploader has no family folder
	ErrNoFamily = errors.New("uploader does not belong to a family")
)

// S3Config holds S3 client configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// objectPutter is the subset of the S3 client used for uploads
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Upload describes a stored object
type Upload struct {
	Key        string           `json:"key"`
	FolderPath string           `json:"folder_path"`
	URL        string           `json:"file_url"`
	MediaType  models.MediaType `json:"media_type"`
}

// MediaStore uploads question media to S3
type MediaStore struct {
	client objectPutter
	cfg    S3Config
	logger *zap.Logger
}

// NewMediaStore creates an S3-backed store. Static credentials are used when
// both keys are set, otherwise the default credential chain. An empty bucket
// yields a disabled store.
func NewMediaStore(ctx context.Context, cfg S3Config, logger *zap.Logger) (*MediaStore, error) {
	if cfg.Bucket == "" {
		logger.Info("media storage disabled: S3_BUCKET not configured")
		return &MediaStore{cfg: cfg, logger: logger}, nil
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
		logger.Info("S3 client using static credentials", zap.String("region", cfg.Region), zap.String("bucket", cfg.Bucket))
	} else {
		logger.Warn("S3 client using default credential chain")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newMediaStore(s3.NewFromConfig(awsCfg), cfg, logger), nil
}

func newMediaStore(client objectPutter, cfg S3Config, logger *zap.Logger) *MediaStore {
	return &MediaStore{client: client, cfg: cfg, logger: logger}
}

// IsEnabled reports whether uploads can be stored
func (s *MediaStore) IsEnabled() bool {
	return s.client != nil
}

// Upload stores body in the uploader's persona folder under a fresh name
func (s *MediaStore) Upload(ctx context.Context, user *models.User, filename, contentType string, body io.Reader, size int64) (*Upload, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageDisabled
	}
	if user.FamilyID == nil {
		return nil, ErrNoFamily
	}
	mediaType := models.MediaTypeFromContentType(contentType)
	if mediaType == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, contentType)
	}

	folder := FolderPath(*user.FamilyID, user)
	key := ObjectKey(folder, uuid.NewString()+strings.ToLower(path.Ext(filename)))

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload media: %w", err)
	}

	s.logger.Info("media uploaded",
		zap.Int64("user_id", user.ID),
		zap.String("key", key),
		zap.String("media_type", string(mediaType)),
	)
	return &Upload{Key: key, FolderPath: folder, URL: s.ObjectURL(key), MediaType: mediaType}, nil
}

// Delete removes a stored object
func (s *MediaStore) Delete(ctx context.Context, key string) error {
	if !s.IsEnabled() {
		return ErrStorageDisabled
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}

// ObjectURL returns the public URL of key
func (s *MediaStore) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
