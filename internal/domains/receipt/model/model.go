package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"pscafe/shared/model"
	"time"
)

const (
	TableName  = "receipts"
	EntityName = "receipt"

	FieldID            = "id"
	FieldSessionID     = "session_id"
	FieldReceiptNumber = "receipt_number"
	FieldIssuedAt      = "issued_at"
)

// SessionData is the immutable closing snapshot stored on the receipt. It is
// the session's state at issue time, line items included, serialized as JSONB
// so the receipt stays intact even if the session rows are later pruned.
type SessionData struct {
	SessionID       string         `json:"session_id"`
	TableID         string         `json:"table_id"`
	TableName       string         `json:"table_name"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         time.Time      `json:"end_time"`
	DurationMinutes int            `json:"duration_minutes"`
	OpeningFee      string         `json:"opening_fee"`
	HourlyRate      string         `json:"hourly_rate"`
	GamingAmount    string         `json:"gaming_amount"`
	ProductsAmount  string         `json:"products_amount"`
	TotalAmount     string         `json:"total_amount"`
	Notes           string         `json:"notes,omitempty"`
	LineItems       []LineItemData `json:"line_items"`
}

type LineItemData struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

func (d SessionData) Value() (driver.Value, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}

	return raw, nil
}

func (d *SessionData) Scan(src any) error {
	switch raw := src.(type) {
	case []byte:
		return json.Unmarshal(raw, d)
	case string:
		return json.Unmarshal([]byte(raw), d)
	default:
		return fmt.Errorf("unsupported session data type %T", src)
	}
}

type Receipt struct {
	ID            string      `db:"id"`
	SessionID     string      `db:"session_id"`
	ReceiptNumber string      `db:"receipt_number"`
	SessionData   SessionData `db:"session_data"`
	IssuedAt      time.Time   `db:"issued_at"`
	model.Metadata
}
