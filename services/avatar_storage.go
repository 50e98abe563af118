package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appcollab/appcollab-backend/config"
	"github.com/appcollab/appcollab-backend/errs"
)

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// AvatarStore persists profile pictures and returns their public URL.
type AvatarStore interface {
	PutAvatar(ctx context.Context, userID uuid.UUID, contentType string, body io.Reader, size int64) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3AvatarStore writes to any S3 compatible bucket (Supabase Storage, MinIO, AWS).
type S3AvatarStore struct {
	client    objectPutter
	bucket    string
	publicURL string
	logger    zerolog.Logger
}

func NewS3AvatarStore(c map[string]string) (*S3AvatarStore, error) {
	bucket := config.GetString(c, "STORAGE_BUCKET", "")
	if bucket == "" {
		return nil, errs.NewConfigMissingError("STORAGE_BUCKET")
	}
	endpoint := config.GetString(c, "STORAGE_ENDPOINT", "")

	awsCfg := aws.Config{
		Region: config.GetString(c, "STORAGE_REGION", "us-east-1"),
		Credentials: credentials.NewStaticCredentialsProvider(
			config.GetString(c, "STORAGE_ACCESS_KEY_ID", ""),
			config.GetString(c, "STORAGE_SECRET_ACCESS_KEY", ""),
			"",
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := config.GetString(c, "STORAGE_PUBLIC_URL", strings.TrimRight(endpoint, "/")+"/"+bucket)
	return newS3AvatarStore(client, bucket, publicURL), nil
}

func newS3AvatarStore(client objectPutter, bucket, publicURL string) *S3AvatarStore {
	return &S3AvatarStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log.With().Str("service", "avatarStore").Logger(),
	}
}

func (s *S3AvatarStore) PutAvatar(ctx context.Context, userID uuid.UUID, contentType string, body io.Reader, size int64) (string, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", errs.NewInvalidFieldError("avatar", "must be a png, jpeg, webp or gif image")
	}
	key := path.Join("avatars", userID.String(), uuid.NewString()+ext)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload avatar")
		return "", errs.NewUpstreamError("object storage", err)
	}

	url := fmt.Sprintf("%s/%s", s.publicURL, key)
	s.logger.Info().Str("userID", userID.String()).Str("url", url).Msg("Uploaded avatar")
	return url, nil
}
