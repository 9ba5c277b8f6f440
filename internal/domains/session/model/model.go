package model

import (
	"pscafe/shared/constant"
	"pscafe/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "sessions"
	EntityName = "session"

	FieldID             = "id"
	FieldTableID        = "table_id"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldOpeningFee     = "opening_fee"
	FieldHourlyRate     = "hourly_rate"
	FieldGamingAmount   = "gaming_amount"
	FieldProductsAmount = "products_amount"
	FieldTotalAmount    = "total_amount"
	FieldNotes          = "notes"
	FieldIsPaid         = "is_paid"
	FieldIsReset        = "is_reset"
)

const (
	ProductTableName  = "session_products"
	ProductEntityName = "session_product"

	FieldProductID        = "product_id"
	FieldSessionID        = "session_id"
	FieldQuantity         = "quantity"
	FieldUnitPrice        = "unit_price"
	FieldTotalPrice       = "total_price"
	FieldProductAddedAt   = "added_at"
	FieldSessionProductID = "session_product_id"
)

// Session is one billable occupancy of a table. The table's rates are
// snapshotted onto the session when it starts. The products amount tracks
// line items as they are sold; the gaming and total amounts stay zero until
// the session is stopped or receipted, at which point they are frozen.
type Session struct {
	ID             string          `db:"id"`
	TableID        string          `db:"table_id"`
	StartTime      time.Time       `db:"start_time"`
	EndTime        *time.Time      `db:"end_time"`
	OpeningFee     decimal.Decimal `db:"opening_fee"`
	HourlyRate     decimal.Decimal `db:"hourly_rate"`
	GamingAmount   decimal.Decimal `db:"gaming_amount"`
	ProductsAmount decimal.Decimal `db:"products_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	Notes          string          `db:"notes"`
	IsPaid         bool            `db:"is_paid"`
	IsReset        bool            `db:"is_reset"`
	TableName      string          `db:"table_name" table:"tables" column:"name"`
	model.Metadata
}

func (Session) GetJoinQuery() string {
	return "JOIN tables ON tables.id = sessions.table_id"
}

func (s *Session) IsActive() bool {
	return s.EndTime == nil
}

// DurationMinutes reports the elapsed session time in whole minutes,
// truncated. A stopped session measures against its end time; an active one
// against the given clock.
func (s *Session) DurationMinutes(now time.Time) int {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}

	return int(end.Sub(s.StartTime) / time.Minute)
}

// CurrentGamingAmount computes the time-based charge: the opening fee plus
// the hourly rate prorated over elapsed minutes.
func (s *Session) CurrentGamingAmount(now time.Time) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(s.DurationMinutes(now)))
	hourly := s.HourlyRate.Mul(minutes).Div(decimal.NewFromInt(constant.MinutesPerHour)).Round(2)

	return s.OpeningFee.Add(hourly)
}

// CurrentTotalAmount computes gaming plus products at the given clock.
func (s *Session) CurrentTotalAmount(now time.Time) decimal.Decimal {
	return s.CurrentGamingAmount(now).Add(s.ProductsAmount)
}

// Freeze stamps the end time and persists the derived amounts onto the
// session so they stop accruing.
func (s *Session) Freeze(at time.Time) {
	s.EndTime = &at
	s.GamingAmount = s.CurrentGamingAmount(at)
	s.TotalAmount = s.GamingAmount.Add(s.ProductsAmount)
}

// SessionProduct is a line item sold during a session. The unit price is a
// snapshot of the product price at purchase time and never changes afterwards.
type SessionProduct struct {
	ID          string          `db:"id"`
	SessionID   string          `db:"session_id"`
	ProductID   string          `db:"product_id"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	AddedAt     time.Time       `db:"added_at"`
	ProductName string          `db:"product_name" table:"products" column:"name"`
	model.Metadata
}

func (SessionProduct) GetJoinQuery() string {
	return "JOIN products ON products.id = session_products.product_id"
}

// ProductsTotal folds line items into the session's products amount.
func ProductsTotal(items []SessionProduct) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}

	return total
}
