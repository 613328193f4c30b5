package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	cfg "github.com/socialmindhq/socialmind/configs"
)

var allowedImageTypes = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {},
}

// MediaService stores uploaded post images in R2-compatible object storage
// and hands back their public URL.
type MediaService struct {
	config cfg.Config
}

func NewMediaService(config cfg.Config) *MediaService {
	return &MediaService{config: config}
}

func (m *MediaService) r2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(m.config.R2.AccessKey, m.config.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", m.config.R2.AccountID))
	}), nil
}

// UploadImage sniffs the real content type before storing; extensions are
// not trusted.
func (m *MediaService) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	content, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer content.Close()

	fileBytes, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return "", fmt.Errorf("unsupported file type")
	}
	if _, ok := allowedImageTypes[fileType.Extension]; !ok {
		return "", fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if err := m.putObject(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", m.config.R2.PublicURL, key), nil
}

// SniffMedia validates an upload destined for the AI gateway and returns its
// raw bytes plus detected MIME type. Video is allowed here, unlike images.
func (m *MediaService) SniffMedia(file *multipart.FileHeader) ([]byte, string, error) {
	content, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("error opening file: %w", err)
	}
	defer content.Close()

	fileBytes, err := io.ReadAll(content)
	if err != nil {
		return nil, "", fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return nil, "", fmt.Errorf("unsupported file type")
	}

	switch fileType.Extension {
	case "jpg", "jpeg", "png", "gif", "webp", "mp4", "mov":
	default:
		return nil, "", fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	return fileBytes, fileType.MIME.Value, nil
}

func (m *MediaService) putObject(ctx context.Context, key string, file []byte, contentType string) error {
	client, err := m.r2Client(ctx)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(m.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
