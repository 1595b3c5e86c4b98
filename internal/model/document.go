package model

import "time"

// Document identifies one uploaded artifact: the still-encrypted blob plus its
// metadata row. This is a pure domain model with no database-specific
// dependencies or tags; it can be used across layers (HTTP, service, worker)
// without coupling to persistence.
//
// Processed transitions false->true at most once, and only after every
// transaction parsed from the blob has been durably committed. Documents are
// never deleted by this subsystem.
type Document struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Processed   bool      `json:"processed"`
}
