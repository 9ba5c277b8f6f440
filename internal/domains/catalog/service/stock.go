package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pscafe/internal/domains/catalog/model"
	"pscafe/internal/domains/catalog/model/dto"
	"pscafe/shared"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/failure"
	gModel "pscafe/shared/model"
	"pscafe/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AdjustStock applies a manual stock movement to a product. Inward types
// add the quantity, outward types subtract it; stock never goes negative.
func (s *serviceImpl) AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (res dto.ProductResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdjustStock")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	tx, err := s.productRepo.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if tx == nil || err == nil {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
	}()

	product, err := s.productRepo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return res, fmt.Errorf("failed to lock product: %w", err)
	}

	if product.ID == constant.Empty {
		return res, failure.NotFound("product not found") // nolint:wrapcheck
	}

	delta := req.Quantity
	if req.MovementType == model.MovementOut || req.MovementType == model.MovementWaste {
		delta = -req.Quantity
	}

	newStock := product.CurrentStock + delta
	if newStock < 0 {
		return res, failure.Conflict("stock cannot go negative") // nolint:wrapcheck
	}

	if err = s.productRepo.UpdateStockTx(ctx, tx, product.ID, newStock); err != nil {
		return res, fmt.Errorf("failed to update product stock: %w", err)
	}

	movement := model.StockMovement{
		ID:           uuid.NewString(),
		ProductID:    product.ID,
		MovementType: req.MovementType,
		Quantity:     delta,
		OldStock:     product.CurrentStock,
		NewStock:     newStock,
		Notes:        req.Notes,
		Metadata:     gModel.NewMetadata(user, timezone.Now()),
	}
	if err = s.movementRepo.InsertTx(ctx, tx, movement); err != nil {
		return res, fmt.Errorf("failed to insert stock movement: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit transaction: %w", err)
	}

	product.CurrentStock = newStock
	res.FromModel(product)

	go s.invalidateProductCaches(ctx)

	return res, nil
}

func (s *serviceImpl) StockMovements(ctx context.Context, productID string, req gDto.QueryParams) (res dto.GetStockMovementsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StockMovements")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.productRepo.Exist(ctx, shared.FilterByID(productID, model.FieldID, model.ProductTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if product exists")

		return res, fmt.Errorf("failed to check if product exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("product not found") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldProductID,
				Value:    productID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	total, err := s.movementRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count stock movements")

		return res, fmt.Errorf("failed to count stock movements: %w", err)
	}

	if req.SortBy == constant.Empty {
		req.SortBy = constant.FieldCreatedAt
		req.SortDir = gDto.SortDirDesc
	}

	models, err := s.movementRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get stock movements")

		return res, fmt.Errorf("failed to get stock movements: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}
