package dto

import (
	sessionModel "pscafe/internal/domains/session/model"
	"pscafe/internal/domains/table/model"
	"pscafe/shared"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	gModel "pscafe/shared/model"
	"pscafe/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTableRequest struct {
	Name          string `json:"name"           validate:"required,max=100"`
	PlaystationIP string `json:"playstation_ip" validate:"omitempty,ip"`
	HourlyRate    string `json:"hourly_rate"    validate:"required,numeric"`
	OpeningFee    string `json:"opening_fee"    validate:"omitempty,numeric"`
	Status        string `json:"status"         validate:"omitempty,oneof=available occupied maintenance"`
}

func (c *CreateTableRequest) ToModel(user string) (model.Table, error) {
	hourlyRate, err := decimal.NewFromString(c.HourlyRate)
	if err != nil {
		return model.Table{}, err
	}

	openingFee := decimal.Zero
	if c.OpeningFee != "" {
		openingFee, err = decimal.NewFromString(c.OpeningFee)
		if err != nil {
			return model.Table{}, err
		}
	}

	status := model.StatusAvailable
	if c.Status != "" {
		status = c.Status
	}

	return model.Table{
		ID:            uuid.NewString(),
		Name:          c.Name,
		PlaystationIP: c.PlaystationIP,
		HourlyRate:    hourlyRate,
		OpeningFee:    openingFee,
		Status:        status,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

type UpdateTableRequest struct {
	Name          string `db:"name"           json:"name"           validate:"omitempty,max=100"`
	PlaystationIP string `db:"playstation_ip" json:"playstation_ip" validate:"omitempty,ip"`
	HourlyRate    string `db:"hourly_rate"    json:"hourly_rate"    validate:"omitempty,numeric"`
	OpeningFee    string `db:"opening_fee"    json:"opening_fee"    validate:"omitempty,numeric"`
	Status        string `db:"status"         json:"status"         validate:"omitempty,oneof=available occupied maintenance"`
}

// ActiveSessionResponse is the running session summary embedded in a table
// listing. Amounts are computed live against the given clock.
type ActiveSessionResponse struct {
	ID              string `json:"id"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	GamingAmount    string `json:"gaming_amount"`
	ProductsAmount  string `json:"products_amount"`
	CurrentTotal    string `json:"current_total"`
}

func (r *ActiveSessionResponse) FromModel(mod sessionModel.Session, now time.Time) {
	r.ID = mod.ID
	r.StartTime = timezone.Format(mod.StartTime, constant.DateFormat)
	r.DurationMinutes = mod.DurationMinutes(now)
	r.GamingAmount = mod.CurrentGamingAmount(now).StringFixed(2)
	r.ProductsAmount = mod.ProductsAmount.StringFixed(2)
	r.CurrentTotal = mod.CurrentTotalAmount(now).StringFixed(2)
}

type TableResponse struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	PlaystationIP  string                 `json:"playstation_ip"`
	HourlyRate     string                 `json:"hourly_rate"`
	OpeningFee     string                 `json:"opening_fee"`
	Status         string                 `json:"status"`
	CurrentSession *ActiveSessionResponse `json:"current_session"`
	gDto.Metadata
}

func (r *TableResponse) FromModel(mod model.Table) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.PlaystationIP = mod.PlaystationIP
	r.HourlyRate = mod.HourlyRate.StringFixed(2)
	r.OpeningFee = mod.OpeningFee.StringFixed(2)
	r.Status = mod.Status
	r.Metadata.FromModel(mod.Metadata)
}

type GetTablesResponse struct {
	Tables    []TableResponse `json:"tables"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetTablesResponse) FromModels(models []model.Table, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tables = make([]TableResponse, len(models))
	for i, mod := range models {
		r.Tables[i].FromModel(mod)
	}
}

// StatsResponse is the dashboard aggregate.
type StatsResponse struct {
	TotalTables     int    `json:"total_tables"`
	AvailableTables int    `json:"available_tables"`
	OccupiedTables  int    `json:"occupied_tables"`
	ActiveSessions  int    `json:"active_sessions"`
	TodaySessions   int    `json:"today_sessions"`
	TodayRevenue    string `json:"today_revenue"`
}
