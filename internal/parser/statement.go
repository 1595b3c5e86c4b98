// Package parser turns decrypted statement bytes into transaction records.
// Input is UTF-8, comma-delimited tabular text with a header row. Parsing is
// all-or-nothing: any malformed row fails the whole statement so a job never
// partially ingests a document.
package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finflow/internal/model"
)

const (
	// DateLayout is the accepted calendar-date form for the date column.
	DateLayout = "2006-01-02"

	defaultCurrency = "USD"
	defaultCategory = "Uncategorized"
)

// Required header columns. currency and category are optional and defaulted.
const (
	colDate        = "date"
	colAmount      = "amount"
	colDescription = "description"
	colCurrency    = "currency"
	colCategory    = "category"
)

// RowError describes the first malformed data row encountered. Line is
// 1-based and counts the header, matching what a user sees in the file.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d: bad %s: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseStatement parses decrypted statement bytes into transactions owned by
// userID and referencing documentID. It returns either every data row or an
// error; it never returns a partial result.
func ParseStatement(data []byte, userID, documentID int64) ([]model.Transaction, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("statement is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colDate, colAmount, colDescription} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("header is missing required column %q", required)
		}
	}

	var txns []model.Transaction
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}

		txn, err := parseRow(record, idx, line)
		if err != nil {
			return nil, err
		}
		txn.UserID = userID
		txn.DocumentID = &documentID
		txns = append(txns, txn)
	}

	return txns, nil
}

func parseRow(record []string, idx map[string]int, line int) (model.Transaction, error) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := time.Parse(DateLayout, field(colDate))
	if err != nil {
		return model.Transaction{}, &RowError{Line: line, Column: colDate, Err: err}
	}

	amount, err := decimal.NewFromString(field(colAmount))
	if err != nil {
		return model.Transaction{}, &RowError{Line: line, Column: colAmount, Err: err}
	}

	currency := field(colCurrency)
	if currency == "" {
		currency = defaultCurrency
	}
	category := field(colCategory)
	if category == "" {
		category = defaultCategory
	}

	return model.Transaction{
		Date:        date,
		Amount:      amount,
		Currency:    currency,
		Description: field(colDescription),
		Category:    category,
	}, nil
}
