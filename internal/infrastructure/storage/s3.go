package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/pkg/config"
)

var _ ports.FileStorage = (*S3Storage)(nil)

// Uploader lo que S3Storage usa de s3manager.Uploader.
type Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3Storage sube documentos a un bucket S3 o compatible (MinIO).
type S3Storage struct {
	uploader Uploader
	bucket   string
	baseURL  string
}

// NewS3Storage crea la sesión con credenciales estáticas y path-style para endpoints compatibles.
func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("storage: S3_BUCKET requerido")
	}
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.S3Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
	}
	if cfg.S3AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: sesión S3: %w", err)
	}
	return NewS3StorageWithUploader(s3manager.NewUploader(sess), cfg.S3Bucket, cfg.PublicBaseURL), nil
}

// NewS3StorageWithUploader permite inyectar el uploader (tests).
func NewS3StorageWithUploader(u Uploader, bucket, baseURL string) *S3Storage {
	return &S3Storage{uploader: u, bucket: bucket, baseURL: baseURL}
}

// Save sube el objeto. Con baseURL devuelve baseURL/key; si no, la URL que informa S3.
func (s *S3Storage) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	in := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	out, err := s.uploader.UploadWithContext(ctx, in)
	if err != nil {
		return "", fmt.Errorf("storage: subir %s: %w", k, err)
	}
	if s.baseURL != "" || out == nil {
		return joinURL(s.baseURL, k), nil
	}
	return out.Location, nil
}
