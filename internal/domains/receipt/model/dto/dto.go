package dto

import (
	"pscafe/internal/domains/receipt/model"
	"pscafe/shared"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/timezone"
)

type ReceiptResponse struct {
	ID            string            `json:"id"`
	SessionID     string            `json:"session_id"`
	ReceiptNumber string            `json:"receipt_number"`
	IssuedAt      string            `json:"issued_at"`
	SessionData   model.SessionData `json:"session_data"`
	gDto.Metadata
}

func (r *ReceiptResponse) FromModel(mod model.Receipt) {
	r.ID = mod.ID
	r.SessionID = mod.SessionID
	r.ReceiptNumber = mod.ReceiptNumber
	r.IssuedAt = timezone.Format(mod.IssuedAt, constant.DateFormat)
	r.SessionData = mod.SessionData
	r.Metadata.FromModel(mod.Metadata)
}

type GetReceiptsResponse struct {
	Receipts  []ReceiptResponse `json:"receipts"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetReceiptsResponse) FromModels(models []model.Receipt, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Receipts = make([]ReceiptResponse, len(models))
	for i, mod := range models {
		r.Receipts[i].FromModel(mod)
	}
}
