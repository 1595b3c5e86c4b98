package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one parsed financial line-item. Rows are created in bulk by
// the worker pipeline during a single job's parse step and are immutable
// afterwards within this subsystem.
//
// VendorID and DocumentID are optional references; a non-nil DocumentID always
// points at the document whose blob was decrypted to produce the row.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	VendorID    *int64          `json:"vendor_id,omitempty"`
	DocumentID  *int64          `json:"document_id,omitempty"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"` // negative = expense, positive = income
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}
