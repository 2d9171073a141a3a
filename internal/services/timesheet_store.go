package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Bucket layout: uploaded timesheets are read-only to the generation
// engine, templates are read-only to everyone but operators, generated
// documents are written once per successful render.
const (
	TimesheetBucket = "timesheets"
	TemplateBucket  = "templates"
	DocumentBucket  = "invoices"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type TimesheetStore interface {
	UploadTimesheet(ctx context.Context, objectKey string, reader io.Reader, size int64) error
	FetchTimesheet(ctx context.Context, objectKey string) ([]byte, error)
	FetchTemplate(ctx context.Context, name string) ([]byte, error)
	StoreDocument(ctx context.Context, objectKey string, data []byte) error
	FetchDocument(ctx context.Context, objectKey string) ([]byte, error)
	EnsureBuckets(ctx context.Context) error
}

type minioStore struct {
	client *minio.Client
}

func NewTimesheetStore(endpoint, accessKey, secretKey string, useSSL bool) (TimesheetStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStore{client: client}, nil
}

func (m *minioStore) UploadTimesheet(ctx context.Context, objectKey string, reader io.Reader, size int64) error {
	_, err := m.client.PutObject(ctx, TimesheetBucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	return err
}

func (m *minioStore) FetchTimesheet(ctx context.Context, objectKey string) ([]byte, error) {
	return m.fetch(ctx, TimesheetBucket, objectKey)
}

func (m *minioStore) FetchTemplate(ctx context.Context, name string) ([]byte, error) {
	return m.fetch(ctx, TemplateBucket, name)
}

// StoreDocument overwrites the object only with a complete document;
// callers serialize before reaching here, so a failed render never
// clobbers a previously generated file.
func (m *minioStore) StoreDocument(ctx context.Context, objectKey string, data []byte) error {
	_, err := m.client.PutObject(ctx, DocumentBucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: docxContentType,
	})
	return err
}

func (m *minioStore) FetchDocument(ctx context.Context, objectKey string) ([]byte, error) {
	return m.fetch(ctx, DocumentBucket, objectKey)
}

func (m *minioStore) fetch(ctx context.Context, bucket, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", bucket, objectKey, err)
	}
	defer func() { _ = obj.Close() }()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", bucket, objectKey, err)
	}
	return data, nil
}

func (m *minioStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{TimesheetBucket, TemplateBucket, DocumentBucket} {
		found, err := m.client.BucketExists(ctx, bucket)
		if err != nil {
			return err
		}
		if !found {
			if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return err
			}
		}
	}
	return nil
}
