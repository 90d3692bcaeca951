package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/rbinhq/rbin/models"
)

const s3Timeout = 10 * time.Second

// S3Store implements PasteStore on an S3 bucket with one <prefix><id>.txt
// object per paste.
type S3Store struct {
	bucket string
	prefix string
	client *s3.Client
}

// NewS3Store creates a new S3 storage backend.
func NewS3Store(bucket, prefix string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket name must not be empty")
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Store{bucket: bucket, prefix: prefix, client: s3.NewFromConfig(cfg)}, nil
}

func (s *S3Store) key(id string) string {
	return s.prefix + id + pasteSuffix
}

// Put uploads content with a conditional If-None-Match put so an existing
// object is never overwritten.
func (s *S3Store) Put(ctx context.Context, id string, content []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(id)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String("text/plain; charset=utf-8"),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		if isS3PreconditionFailed(err) {
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("put paste %s: %w", id, err)
	}
	return nil
}

// Get downloads the content stored under id.
func (s *S3Store) Get(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get paste %s: %w", id, err)
	}
	defer func() { _ = obj.Body.Close() }()

	content, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("read paste %s: %w", id, err)
	}
	return content, nil
}

// Exists checks object presence with a HeadObject call.
func (s *S3Store) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head paste %s: %w", id, err)
	}
	return true, nil
}

// Delete removes the object; deleting an absent key succeeds.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("delete paste %s: %w", id, err)
	}
	return nil
}

// Close is a no-op for the S3 backend.
func (s *S3Store) Close() error {
	return nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	// Fallback for SDK responses that only carry the HTTP status
	return strings.Contains(err.Error(), "StatusCode: 404")
}

func isS3PreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
		return true
	}
	return strings.Contains(err.Error(), "StatusCode: 412")
}
