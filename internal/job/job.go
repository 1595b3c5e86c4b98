// Package job defines the ephemeral unit of ingestion work exchanged between
// the intake handler and the worker pipeline, together with the status/result
// contract published on the result channel. Jobs are never persisted to the
// relational store; a document's processed flag is the durable trace of
// completion.
package job

import (
	"time"

	"github.com/google/uuid"
)

// Status is the caller-visible lifecycle state of a job.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusStarted Status = "STARTED"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"

	// StatusUnknown is reported for identifiers that were never issued or
	// whose result-channel entry has expired. It is distinct from
	// StatusFailure: callers must not treat an expired job as a failed one.
	StatusUnknown Status = "UNKNOWN"
)

// FailureKind classifies why a job failed.
type FailureKind string

const (
	KindStorage     FailureKind = "StorageError"     // blob I/O
	KindPersistence FailureKind = "PersistenceError" // database I/O or constraint violation
	KindDispatch    FailureKind = "DispatchError"    // queue unavailable
	KindNotFound    FailureKind = "NotFound"         // blob missing at fetch time
	KindDecryption  FailureKind = "DecryptionError"  // bad key or ciphertext
	KindParse       FailureKind = "ParseError"       // malformed tabular row
)

// Job is one unit of ingestion work carried on the queue. The key material
// rides with the job so any worker can perform the decryption.
type Job struct {
	ID          string    `json:"id"`
	DocumentID  int64     `json:"document_id"`
	StoragePath string    `json:"storage_path"`
	Key         string    `json:"key"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// NewID returns a fresh job identifier. IDs are opaque, globally unique, and
// never reused.
func NewID() string {
	return uuid.NewString()
}

// Result is the payload published alongside a SUCCESS status.
type Result struct {
	DocumentID           int64 `json:"document_id"`
	TransactionsInserted int   `json:"transactions_inserted"`
}

// Update is a result-channel entry: the latest known status of a job and, for
// terminal states, its outcome. Each job's entry is only ever written by the
// process that owns the job at that moment.
type Update struct {
	JobID     string      `json:"job_id"`
	Status    Status      `json:"status"`
	Result    *Result     `json:"result,omitempty"`
	ErrorKind FailureKind `json:"error_kind,omitempty"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}
