package uploads

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store persists uploads to an S3 bucket.
type S3Store struct {
	bucket   string
	s3Client S3API
}

// NewS3Store creates an S3-backed upload store.
func NewS3Store(s3Client S3API, bucket string) *S3Store {
	return &S3Store{bucket: bucket, s3Client: s3Client}
}

// Put uploads the object and returns its key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("uploads: s3 put %s: %w", key, err)
	}
	return key, nil
}
