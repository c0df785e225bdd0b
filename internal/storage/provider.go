package storage

import (
	"io"
	"time"
)

// StorageProvider defines the behavior for any storage backend.
type StorageProvider interface {
	List(bucket, prefix string) ([]ObjectInfo, error)
	Put(bucket, key string, body io.ReadSeeker, contentType, cacheControl string) error
	Delete(bucket, key string) error
	Exists(bucket, key string) (bool, error)
}

// ObjectInfo is the provider-agnostic listing entry for a stored file.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}
