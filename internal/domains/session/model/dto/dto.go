package dto

import (
	catalogModel "pscafe/internal/domains/catalog/model"
	"pscafe/internal/domains/session/model"
	tableModel "pscafe/internal/domains/table/model"
	"pscafe/shared"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	gModel "pscafe/shared/model"
	"pscafe/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StartSessionRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=255"`
}

// ToModel opens a session on the given table, snapshotting the table's
// current rates so later rate changes never affect a running bill.
func (c *StartSessionRequest) ToModel(table tableModel.Table, user string) model.Session {
	now := timezone.Now()

	return model.Session{
		ID:             uuid.NewString(),
		TableID:        table.ID,
		StartTime:      now,
		OpeningFee:     table.OpeningFee,
		HourlyRate:     table.HourlyRate,
		GamingAmount:   decimal.Zero,
		ProductsAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		Notes:          c.Notes,
		TableName:      table.Name,
		Metadata:       gModel.NewMetadata(user, now),
	}
}

type AddProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// ToModel creates a line item priced at the product's current price. The
// unit price is frozen on the row from here on.
func (c *AddProductRequest) ToModel(sessionID string, product catalogModel.Product, user string) model.SessionProduct {
	now := timezone.Now()
	unitPrice := product.Price

	return model.SessionProduct{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		ProductID:   product.ID,
		Quantity:    c.Quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(decimal.NewFromInt(int64(c.Quantity))),
		AddedAt:     now,
		ProductName: product.Name,
		Metadata:    gModel.NewMetadata(user, now),
	}
}

type RemoveProductRequest struct {
	SessionProductID string `json:"session_product_id" validate:"required"`
}

type SessionProductResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
	AddedAt     string `json:"added_at"`
}

func (r *SessionProductResponse) FromModel(mod model.SessionProduct) {
	r.ID = mod.ID
	r.ProductID = mod.ProductID
	r.ProductName = mod.ProductName
	r.Quantity = mod.Quantity
	r.UnitPrice = mod.UnitPrice.StringFixed(2)
	r.TotalPrice = mod.TotalPrice.StringFixed(2)
	r.AddedAt = timezone.Format(mod.AddedAt, constant.DateFormat)
}

type SessionResponse struct {
	ID              string                   `json:"id"`
	TableID         string                   `json:"table_id"`
	TableName       string                   `json:"table_name"`
	StartTime       string                   `json:"start_time"`
	EndTime         string                   `json:"end_time,omitempty"`
	DurationMinutes int                      `json:"duration_minutes"`
	OpeningFee      string                   `json:"opening_fee"`
	HourlyRate      string                   `json:"hourly_rate"`
	GamingAmount    string                   `json:"gaming_amount"`
	ProductsAmount  string                   `json:"products_amount"`
	TotalAmount     string                   `json:"total_amount"`
	Notes           string                   `json:"notes,omitempty"`
	IsActive        bool                     `json:"is_active"`
	IsPaid          bool                     `json:"is_paid"`
	IsReset         bool                     `json:"is_reset"`
	Products        []SessionProductResponse `json:"products"`
	gDto.Metadata
}

// FromModel renders a session against the given clock. Active sessions show
// live amounts; stopped ones show the amounts frozen at stop time.
func (r *SessionResponse) FromModel(mod model.Session, now time.Time) {
	r.ID = mod.ID
	r.TableID = mod.TableID
	r.TableName = mod.TableName
	r.StartTime = timezone.Format(mod.StartTime, constant.DateFormat)
	r.DurationMinutes = mod.DurationMinutes(now)
	r.OpeningFee = mod.OpeningFee.StringFixed(2)
	r.HourlyRate = mod.HourlyRate.StringFixed(2)
	r.ProductsAmount = mod.ProductsAmount.StringFixed(2)
	r.Notes = mod.Notes
	r.IsActive = mod.IsActive()
	r.IsPaid = mod.IsPaid
	r.IsReset = mod.IsReset
	r.Products = []SessionProductResponse{}
	r.Metadata.FromModel(mod.Metadata)

	if mod.EndTime != nil {
		r.EndTime = timezone.Format(*mod.EndTime, constant.DateFormat)
		r.GamingAmount = mod.GamingAmount.StringFixed(2)
		r.TotalAmount = mod.TotalAmount.StringFixed(2)

		return
	}

	r.GamingAmount = mod.CurrentGamingAmount(now).StringFixed(2)
	r.TotalAmount = mod.CurrentTotalAmount(now).StringFixed(2)
}

func (r *SessionResponse) WithProducts(items []model.SessionProduct) {
	r.Products = make([]SessionProductResponse, len(items))
	for i, item := range items {
		r.Products[i].FromModel(item)
	}
}

type GetSessionsResponse struct {
	Sessions  []SessionResponse `json:"sessions"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetSessionsResponse) FromModels(models []model.Session, totalData, limit int, now time.Time) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Sessions = make([]SessionResponse, len(models))
	for i, mod := range models {
		r.Sessions[i].FromModel(mod, now)
	}
}
