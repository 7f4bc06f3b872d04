package client

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// MockS3Client implements S3ClientInterface for testing without AWS credentials
type MockS3Client struct {
	Bucket string
	Region string

	// Optional function overrides for custom test behavior
	GeneratePresignedUploadURLFunc func(ctx context.Context, fieldID, fileName, contentType string) (string, string, error)
	DeleteFileFunc                 func(ctx context.Context, key string) error
	GetFileURLFunc                 func(key string) string

	DeletedKeys []string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket: "test-bucket",
		Region: "ap-southeast-1",
	}
}

func (m *MockS3Client) GeneratePresignedUploadURL(ctx context.Context, fieldID, fileName, contentType string) (string, string, error) {
	if m.GeneratePresignedUploadURLFunc != nil {
		return m.GeneratePresignedUploadURLFunc(ctx, fieldID, fileName, contentType)
	}
	key := fmt.Sprintf("work-logs/%s/%s/%s_%d%s",
		fieldID,
		time.Now().Format("2006/01"),
		uuid.New().String(),
		time.Now().Unix(),
		filepath.Ext(fileName),
	)
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s?presigned=true", m.Bucket, m.Region, key), key, nil
}

func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	m.DeletedKeys = append(m.DeletedKeys, key)
	return nil
}

func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}
