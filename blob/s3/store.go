package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"filesmanager/core"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"
)

type s3Store struct {
	s3Client *s3.Client
	bucket   string
}

// NewStore creates an S3-based blob store. References are object keys
// inside the configured bucket.
func NewStore(bucketName string) *s3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	return &s3Store{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucketName,
	}
}

func (s *s3Store) Create(ctx context.Context, data []byte) (string, error) {
	key := ulid.Make().String()
	if err := s.Write(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (s *s3Store) Read(ctx context.Context, ref string) ([]byte, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blob %s: %v", ref, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob data: %v", err)
	}
	return data, nil
}

func (s *s3Store) Write(ctx context.Context, ref string, data []byte) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob: %v", err)
	}
	return nil
}
