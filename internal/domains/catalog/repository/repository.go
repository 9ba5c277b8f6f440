package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pscafe/infras/otel"
	"pscafe/infras/postgres"
	"pscafe/internal/domains/catalog/model"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/logger"
	gRepo "pscafe/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Category interface {
	Insert(ctx context.Context, model model.Category) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Category, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Category, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type categoryImpl struct {
	gRepo.Repository[model.Category]
	db   *postgres.Connection
	otel otel.Otel
}

func NewCategory(db *postgres.Connection, otel otel.Otel) Category {
	return &categoryImpl{
		Repository: gRepo.NewRepository[model.Category](model.CategoryEntityName, model.CategoryTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type Product interface {
	Insert(ctx context.Context, model model.Product) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Product, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Product, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Product, error)
	UpdateStockTx(ctx context.Context, sqltx *sqlx.Tx, id string, newStock int) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}

type productImpl struct {
	gRepo.Repository[model.Product]
	db   *postgres.Connection
	otel otel.Otel
}

func NewProduct(db *postgres.Connection, otel otel.Otel) Product {
	return &productImpl{
		Repository: gRepo.NewRepository[model.Product](model.ProductEntityName, model.ProductTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *productImpl) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to begin transaction (%s): %w", model.ProductEntityName, err)
	}

	return sqltx, nil
}

// GetForUpdateTx locks the product row so concurrent sales cannot oversell
// the remaining stock.
func (repo *productImpl) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (res model.Product, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".product.GetForUpdateTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 FOR UPDATE", model.ProductTableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &res, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to lock product row: %w", err)
	}

	return res, nil
}

func (repo *productImpl) UpdateStockTx(ctx context.Context, sqltx *sqlx.Tx, id string, newStock int) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".product.UpdateStockTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2", model.ProductTableName, model.FieldCurrentStock, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err = sqltx.ExecContext(ctx, query, newStock, id)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update product stock: %w", err)
	}

	return nil
}

type StockMovement interface {
	Insert(ctx context.Context, model model.StockMovement) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.StockMovement) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.StockMovement, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type movementImpl struct {
	gRepo.Repository[model.StockMovement]
	db   *postgres.Connection
	otel otel.Otel
}

func NewStockMovement(db *postgres.Connection, otel otel.Otel) StockMovement {
	return &movementImpl{
		Repository: gRepo.NewRepository[model.StockMovement](model.MovementEntityName, model.MovementTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
