package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pscafe/internal/domains/session/model"
)

func newSession(openingFee, hourlyRate string, start time.Time) model.Session {
	return model.Session{
		ID:         "session-1",
		TableID:    "table-1",
		StartTime:  start,
		OpeningFee: decimal.RequireFromString(openingFee),
		HourlyRate: decimal.RequireFromString(hourlyRate),
	}
}

func TestSession_DurationMinutes(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{name: "zero elapsed", elapsed: 0, want: 0},
		{name: "under a minute truncates to zero", elapsed: 59 * time.Second, want: 0},
		{name: "exactly one hour", elapsed: time.Hour, want: 60},
		{name: "ninety minutes", elapsed: 90 * time.Minute, want: 90},
		{name: "partial minute truncates", elapsed: 90*time.Minute + 59*time.Second, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ses := newSession("20", "100", start)
			assert.Equal(t, tt.want, ses.DurationMinutes(start.Add(tt.elapsed)))
		})
	}
}

func TestSession_DurationMinutes_Stopped(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	ses := newSession("20", "100", start)
	ses.EndTime = &end

	// A stopped session measures against its end time, not the clock.
	assert.Equal(t, 45, ses.DurationMinutes(start.Add(3*time.Hour)))
}

func TestSession_CurrentGamingAmount(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		openingFee string
		hourlyRate string
		elapsed    time.Duration
		want       string
	}{
		{name: "opening fee only at start", openingFee: "20", hourlyRate: "100", elapsed: 0, want: "20"},
		{name: "one hour", openingFee: "20", hourlyRate: "100", elapsed: time.Hour, want: "120"},
		{name: "ninety minutes", openingFee: "20", hourlyRate: "100", elapsed: 90 * time.Minute, want: "170"},
		{name: "prorated rounds to two decimals", openingFee: "0", hourlyRate: "100", elapsed: 35 * time.Minute, want: "58.33"},
		{name: "no opening fee", openingFee: "0", hourlyRate: "120", elapsed: 30 * time.Minute, want: "60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ses := newSession(tt.openingFee, tt.hourlyRate, start)
			got := ses.CurrentGamingAmount(start.Add(tt.elapsed))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSession_CurrentTotalAmount(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

	ses := newSession("20", "100", start)
	ses.ProductsAmount = decimal.RequireFromString("16")

	got := ses.CurrentTotalAmount(start.Add(time.Hour))
	assert.True(t, got.Equal(decimal.RequireFromString("136")), "got %s", got)
}

func TestSession_Freeze(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	ses := newSession("20", "100", start)
	ses.ProductsAmount = decimal.RequireFromString("24")

	ses.Freeze(end)

	assert.False(t, ses.IsActive())
	assert.Equal(t, end, *ses.EndTime)
	assert.True(t, ses.GamingAmount.Equal(decimal.RequireFromString("170")), "gaming %s", ses.GamingAmount)
	assert.True(t, ses.TotalAmount.Equal(decimal.RequireFromString("194")), "total %s", ses.TotalAmount)

	// Amounts stay put once frozen.
	assert.True(t, ses.CurrentGamingAmount(end.Add(2*time.Hour)).Equal(ses.GamingAmount))
}

func TestProductsTotal(t *testing.T) {
	items := []model.SessionProduct{
		{Quantity: 2, TotalPrice: decimal.RequireFromString("16")},
		{Quantity: 1, TotalPrice: decimal.RequireFromString("12.50")},
	}

	assert.True(t, model.ProductsTotal(items).Equal(decimal.RequireFromString("28.50")))
	assert.True(t, model.ProductsTotal(nil).Equal(decimal.Zero))
}
