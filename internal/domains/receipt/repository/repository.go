package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pscafe/infras/otel"
	"pscafe/infras/postgres"
	"pscafe/internal/domains/receipt/model"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/logger"
	gRepo "pscafe/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Receipt interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Receipt, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Receipt, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Receipt) error
	NextNumberTx(ctx context.Context, sqltx *sqlx.Tx, prefix string, day time.Time) (string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Receipt]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Receipt {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Receipt](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// NextNumberTx assigns the next receipt number for the day, e.g. F20250901042.
// An advisory lock keyed on the numbering sequence serializes concurrent
// closings across tables so the daily counter never collides; the unique
// index on receipt_number is the backstop.
func (repo *repositoryImpl) NextNumberTx(ctx context.Context, sqltx *sqlx.Tx, prefix string, day time.Time) (res string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".receipt.NextNumberTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = sqltx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext('receipt_number'))"); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to acquire receipt number lock: %w", err)
	}

	dayPrefix := prefix + day.Format("20060102")

	query := fmt.Sprintf(`SELECT COALESCE(MAX(SUBSTRING(%s FROM %d)::int), 0) + 1
		FROM %s WHERE %s LIKE $1`,
		model.FieldReceiptNumber, len(dayPrefix)+1,
		model.TableName, model.FieldReceiptNumber)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var sequence int

	err = sqltx.GetContext(ctx, &sequence, query, dayPrefix+"%")
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get next receipt sequence: %w", err)
	}

	return fmt.Sprintf("%s%03d", dayPrefix, sequence), nil
}
