package model

import (
	"pscafe/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "tables"
	EntityName = "table"

	FieldID            = "id"
	FieldName          = "name"
	FieldPlaystationIP = "playstation_ip"
	FieldHourlyRate    = "hourly_rate"
	FieldOpeningFee    = "opening_fee"
	FieldStatus        = "status"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
)

type Table struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	PlaystationIP string          `db:"playstation_ip"`
	HourlyRate    decimal.Decimal `db:"hourly_rate"`
	OpeningFee    decimal.Decimal `db:"opening_fee"`
	Status        string          `db:"status"`
	model.Metadata
}

func (t *Table) IsAvailable() bool {
	return t.Status == StatusAvailable
}

// Stats is the aggregate snapshot served on the dashboard.
type Stats struct {
	TotalTables     int `db:"total_tables"`
	AvailableTables int `db:"available_tables"`
	OccupiedTables  int `db:"occupied_tables"`
}
