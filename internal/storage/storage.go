package storage

import "context"

// ObjectInfo identifies a remote file/object. Listing backends do not report
// sizes, so the key is the only metadata carried.
type ObjectInfo struct {
	Key string
}

// ObjectStorage captures the minimal S3-compatible operations the application
// needs: staged-file originals, template original workbooks, and the ingest
// drop bucket all go through it.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte) error
	DeleteObject(ctx context.Context, key string) error
}
