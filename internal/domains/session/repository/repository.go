package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pscafe/infras/otel"
	"pscafe/infras/postgres"
	"pscafe/internal/domains/session/model"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/logger"
	gRepo "pscafe/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Session interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Session, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Session, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Session) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	GetActiveByTable(ctx context.Context, tableID string) (model.Session, error)
	GetActiveByTableTx(ctx context.Context, sqltx *sqlx.Tx, tableID string) (model.Session, error)
	GetLatestByTableTx(ctx context.Context, sqltx *sqlx.Tx, tableID string) (model.Session, error)
	GetActiveByTables(ctx context.Context, tableIDs []string) ([]model.Session, error)
	GetProducts(ctx context.Context, sessionID string) ([]model.SessionProduct, error)
	GetProductTx(ctx context.Context, sqltx *sqlx.Tx, id, sessionID string) (model.SessionProduct, error)
	InsertProductTx(ctx context.Context, sqltx *sqlx.Tx, item model.SessionProduct) error
	DeleteProductTx(ctx context.Context, sqltx *sqlx.Tx, id string) error
	SumProductsTx(ctx context.Context, sqltx *sqlx.Tx, sessionID string) (decimal.Decimal, error)
	TodayRevenue(ctx context.Context, day time.Time) (decimal.Decimal, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Session]
	products gRepo.Repository[model.SessionProduct]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Session {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Session](model.EntityName, model.TableName, model.FieldID, db, otel),
		products:   gRepo.NewRepository[model.SessionProduct](model.ProductEntityName, model.ProductTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetActiveByTable(ctx context.Context, tableID string) (res model.Session, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".session.GetActiveByTable")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := activeByTableQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.GetContext(ctx, &res, query, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get active session: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) GetActiveByTableTx(ctx context.Context, sqltx *sqlx.Tx, tableID string) (res model.Session, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".session.GetActiveByTableTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := activeByTableQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &res, query, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get active session: %w", err)
	}

	return res, nil
}

// GetLatestByTableTx returns the table's most recent session that has not
// been reset, whether still running or already stopped. Receipting works off
// this row.
func (repo *repositoryImpl) GetLatestByTableTx(ctx context.Context, sqltx *sqlx.Tx, tableID string) (res model.Session, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".session.GetLatestByTableTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 AND %s = FALSE ORDER BY %s DESC LIMIT 1",
		model.TableName, model.FieldTableID, model.FieldIsReset, model.FieldStartTime)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &res, query, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get latest session: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) GetActiveByTables(ctx context.Context, tableIDs []string) (res []model.Session, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".session.GetActiveByTables")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(tableIDs) == 0 {
		return res, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf("SELECT * FROM %s WHERE %s IS NULL AND %s = FALSE AND %s IN (?)",
			model.TableName, model.FieldEndTime, model.FieldIsReset, model.FieldTableID),
		tableIDs,
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to build active sessions query: %w", err)
	}

	query = repo.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &res, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get active sessions: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) GetProducts(ctx context.Context, sessionID string) ([]model.SessionProduct, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Table:    model.ProductTableName,
				Field:    model.FieldSessionID,
				Value:    sessionID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
	params := gDto.QueryParams{
		SortBy:  model.ProductTableName + "." + model.FieldProductAddedAt,
		SortDir: gDto.SortDirAsc,
	}

	return repo.products.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetProductTx(ctx context.Context, sqltx *sqlx.Tx, id, sessionID string) (res model.SessionProduct, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".session.GetProductTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 AND %s = $2",
		model.ProductTableName, model.FieldID, model.FieldSessionID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &res, query, id, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get session product: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) InsertProductTx(ctx context.Context, sqltx *sqlx.Tx, item model.SessionProduct) error {
	return repo.products.InsertTx(ctx, sqltx, item) //nolint:wrapcheck
}

func (repo *repositoryImpl) DeleteProductTx(ctx context.Context, sqltx *sqlx.Tx, id string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".session.DeleteProductTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", model.ProductTableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err = sqltx.ExecContext(ctx, query, id)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to delete session product: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) SumProductsTx(ctx context.Context, sqltx *sqlx.Tx, sessionID string) (res decimal.Decimal, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".session.SumProductsTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = $1",
		model.FieldTotalPrice, model.ProductTableName, model.FieldSessionID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &res, query, sessionID)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to sum session products: %w", err)
	}

	return res, nil
}

// TodayRevenue sums the frozen totals of sessions started on the given day
// that have already ended. Active sessions do not count towards revenue yet.
func (repo *repositoryImpl) TodayRevenue(ctx context.Context, day time.Time) (res decimal.Decimal, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".session.TodayRevenue")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s
		WHERE %s >= $1 AND %s < $2 AND %s IS NOT NULL`,
		model.FieldTotalAmount, model.TableName,
		model.FieldStartTime, model.FieldStartTime, model.FieldEndTime)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	err = repo.db.Read.GetContext(ctx, &res, query, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to sum today revenue: %w", err)
	}

	return res, nil
}

func activeByTableQuery() string {
	return fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 AND %s IS NULL AND %s = FALSE ORDER BY %s DESC LIMIT 1",
		model.TableName, model.FieldTableID, model.FieldEndTime, model.FieldIsReset, model.FieldStartTime)
}
