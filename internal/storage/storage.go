package storage

import (
	"context"
	"io"
	"time"
)

// Package storage is the durable blob area holding raw, still-encrypted
// document bytes. Blobs are write-once at intake and read-once by the worker
// that processes the referencing job; nothing in the system mutates a blob in
// place. Implementations stream content and never touch local disk.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible blob store client. Safe for concurrent use.
type Storage interface {
	// Put uploads a blob under the given key from the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves a blob's content as a streaming reader alongside its info.
	// A missing key is reported by an error for which IsNotFound returns true.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes a blob by key. Used only for compensating cleanup at
	// intake; workers never delete blobs.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the
	// blob without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
