package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"pscafe/infras/otel/mocks"
	"pscafe/infras/postgres"
	"pscafe/internal/domains/receipt/repository"
)

func TestReceiptRepository_NextNumberTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	defer db.Close()

	conn := sqlx.NewDb(db, "sqlmock")
	repo := repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel())

	day := time.Date(2025, 6, 1, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sequence int
		want     string
	}{
		{name: "first receipt of the day", sequence: 1, want: "F20250601001"},
		{name: "counter continues within the day", sequence: 42, want: "F20250601042"},
		{name: "sequence wider than the padding", sequence: 1204, want: "F202506011204"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectBegin()

			tx, err := conn.Beginx()
			assert.NoError(t, err)

			mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext('receipt_number'))")).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery("SELECT COALESCE").
				WithArgs("F20250601%").
				WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(tt.sequence))
			mock.ExpectRollback()

			got, err := repo.NextNumberTx(context.Background(), tx, "F", day)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, tx.Rollback())
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
