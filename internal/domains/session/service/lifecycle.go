package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	catalogModel "pscafe/internal/domains/catalog/model"
	receiptModel "pscafe/internal/domains/receipt/model"
	receiptDto "pscafe/internal/domains/receipt/model/dto"
	"pscafe/internal/domains/session/model"
	"pscafe/internal/domains/session/model/dto"
	tableModel "pscafe/internal/domains/table/model"
	"pscafe/shared"
	"pscafe/shared/constant"
	"pscafe/shared/failure"
	gModel "pscafe/shared/model"
	"pscafe/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Start opens a session on an available table, snapshotting the table's
// rates onto it. The table row is locked for the duration of the transaction
// so two operators cannot seat the same table at once.
func (s *serviceImpl) Start(ctx context.Context, tableID string, req dto.StartSessionRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Start")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	tx, err := s.tableRepo.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	table, err := s.tableRepo.GetForUpdateTx(ctx, tx, tableID)
	if err != nil {
		return res, fmt.Errorf("failed to lock table: %w", err)
	}

	if table.ID == constant.Empty {
		return res, failure.NotFound("table not found") // nolint:wrapcheck
	}

	if !table.IsAvailable() {
		return res, failure.Conflict("table is not available") // nolint:wrapcheck
	}

	active, err := s.repo.GetActiveByTableTx(ctx, tx, tableID)
	if err != nil {
		return res, fmt.Errorf("failed to check active session: %w", err)
	}

	if active.ID != constant.Empty {
		return res, failure.Conflict("table already has an active session") // nolint:wrapcheck
	}

	ses := req.ToModel(table, user)

	if err = s.repo.InsertTx(ctx, tx, ses); err != nil {
		return res, fmt.Errorf("failed to insert session: %w", err)
	}

	if err = s.occupyTableTx(ctx, tx, tableID, tableModel.StatusOccupied, user); err != nil {
		return res, err
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit transaction: %w", err)
	}

	res.FromModel(ses, timezone.Now())
	res.WithProducts(nil)

	s.publishEvent(ctx, billingEvent{
		EventType: eventSessionStarted,
		TableID:   table.ID,
		TableName: table.Name,
		SessionID: ses.ID,
		Operator:  user,
	})
	go s.invalidateCaches(ctx)

	return res, nil
}

// Stop ends the table's running session, freezes its amounts and returns the
// table to available. The session stays queryable until it is receipted or the
// table is reset.
func (s *serviceImpl) Stop(ctx context.Context, tableID string) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stop")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	tx, err := s.tableRepo.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	table, ses, err := s.lockTableWithActiveSession(ctx, tx, tableID)
	if err != nil {
		return res, err
	}

	if err = s.freezeSessionTx(ctx, tx, &ses, user); err != nil {
		return res, err
	}

	if err = s.occupyTableTx(ctx, tx, tableID, tableModel.StatusAvailable, user); err != nil {
		return res, err
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit transaction: %w", err)
	}

	items, err := s.repo.GetProducts(ctx, ses.ID)
	if err != nil {
		return res, fmt.Errorf("failed to get session products: %w", err)
	}

	ses.TableName = table.Name
	res.FromModel(ses, *ses.EndTime)
	res.WithProducts(items)

	s.publishEvent(ctx, billingEvent{
		EventType: eventSessionStopped,
		TableID:   table.ID,
		TableName: table.Name,
		SessionID: ses.ID,
		Amount:    ses.TotalAmount.StringFixed(2),
		Operator:  user,
	})
	go s.invalidateCaches(ctx)

	return res, nil
}

// AddProduct sells a product onto the table's running session at the
// product's current price and decrements stock, recording a sale movement.
func (s *serviceImpl) AddProduct(ctx context.Context, tableID string, req dto.AddProductRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddProduct")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	tx, err := s.tableRepo.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	table, ses, err := s.lockTableWithActiveSession(ctx, tx, tableID)
	if err != nil {
		return res, err
	}

	product, err := s.productRepo.GetForUpdateTx(ctx, tx, req.ProductID)
	if err != nil {
		return res, fmt.Errorf("failed to lock product: %w", err)
	}

	if product.ID == constant.Empty {
		return res, failure.NotFound("product not found") // nolint:wrapcheck
	}

	if !product.IsActive {
		return res, failure.BadRequestFromString("product is not active") // nolint:wrapcheck
	}

	if product.CurrentStock < req.Quantity {
		return res, failure.Conflict("insufficient stock") // nolint:wrapcheck
	}

	item := req.ToModel(ses.ID, product, user)

	if err = s.repo.InsertProductTx(ctx, tx, item); err != nil {
		return res, fmt.Errorf("failed to insert session product: %w", err)
	}

	newStock := product.CurrentStock - req.Quantity
	if err = s.recordStockChangeTx(ctx, tx, product, catalogModel.MovementSale, -req.Quantity, newStock, &item.ID, "", user); err != nil {
		return res, err
	}

	if err = s.refreshProductsAmountTx(ctx, tx, &ses, user); err != nil {
		return res, err
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit transaction: %w", err)
	}

	items, err := s.repo.GetProducts(ctx, ses.ID)
	if err != nil {
		return res, fmt.Errorf("failed to get session products: %w", err)
	}

	ses.TableName = table.Name
	res.FromModel(ses, timezone.Now())
	res.WithProducts(items)

	s.publishEvent(ctx, billingEvent{
		EventType: eventProductAdded,
		TableID:   table.ID,
		TableName: table.Name,
		SessionID: ses.ID,
		Amount:    item.TotalPrice.StringFixed(2),
		Operator:  user,
	})
	go s.invalidateStockCaches(ctx)

	return res, nil
}

// RemoveProduct voids a line item on the running session and returns its
// quantity to stock.
func (s *serviceImpl) RemoveProduct(ctx context.Context, tableID string, req dto.RemoveProductRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveProduct")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	tx, err := s.tableRepo.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	table, ses, err := s.lockTableWithActiveSession(ctx, tx, tableID)
	if err != nil {
		return res, err
	}

	item, err := s.repo.GetProductTx(ctx, tx, req.SessionProductID, ses.ID)
	if err != nil {
		return res, fmt.Errorf("failed to get session product: %w", err)
	}

	if item.ID == constant.Empty {
		return res, failure.NotFound("session product not found") // nolint:wrapcheck
	}

	if err = s.repo.DeleteProductTx(ctx, tx, item.ID); err != nil {
		return res, fmt.Errorf("failed to delete session product: %w", err)
	}

	product, err := s.productRepo.GetForUpdateTx(ctx, tx, item.ProductID)
	if err != nil {
		return res, fmt.Errorf("failed to lock product: %w", err)
	}

	if product.ID != constant.Empty {
		newStock := product.CurrentStock + item.Quantity
		if err = s.recordStockChangeTx(ctx, tx, product, catalogModel.MovementAdjustment, item.Quantity, newStock, nil, "line item removed from session", user); err != nil {
			return res, err
		}
	}

	if err = s.refreshProductsAmountTx(ctx, tx, &ses, user); err != nil {
		return res, err
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit transaction: %w", err)
	}

	items, err := s.repo.GetProducts(ctx, ses.ID)
	if err != nil {
		return res, fmt.Errorf("failed to get session products: %w", err)
	}

	ses.TableName = table.Name
	res.FromModel(ses, timezone.Now())
	res.WithProducts(items)

	s.publishEvent(ctx, billingEvent{
		EventType: eventProductRemoved,
		TableID:   table.ID,
		TableName: table.Name,
		SessionID: ses.ID,
		Amount:    item.TotalPrice.StringFixed(2),
		Operator:  user,
	})
	go s.invalidateStockCaches(ctx)

	return res, nil
}

// CreateReceipt issues a receipt for the table's latest session, stopping it
// first if it is still running. The session's closing state is snapshotted
// onto the receipt, line items included, and the session is marked paid.
func (s *serviceImpl) CreateReceipt(ctx context.Context, tableID string) (res receiptDto.ReceiptResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateReceipt")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)
	now := timezone.Now()

	tx, err := s.tableRepo.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	table, err := s.tableRepo.GetForUpdateTx(ctx, tx, tableID)
	if err != nil {
		return res, fmt.Errorf("failed to lock table: %w", err)
	}

	if table.ID == constant.Empty {
		return res, failure.NotFound("table not found") // nolint:wrapcheck
	}

	ses, err := s.repo.GetLatestByTableTx(ctx, tx, tableID)
	if err != nil {
		return res, fmt.Errorf("failed to get latest session: %w", err)
	}

	if ses.ID == constant.Empty {
		return res, failure.Conflict("table has no session to receipt") // nolint:wrapcheck
	}

	if ses.IsPaid {
		return res, failure.Conflict("session already has a receipt") // nolint:wrapcheck
	}

	if ses.IsActive() {
		if err = s.freezeSessionTx(ctx, tx, &ses, user); err != nil {
			return res, err
		}
	}

	items, err := s.repo.GetProducts(ctx, ses.ID)
	if err != nil {
		return res, fmt.Errorf("failed to get session products: %w", err)
	}

	number, err := s.receiptRepo.NextNumberTx(ctx, tx, s.cfg.Billing.ReceiptPrefix, now)
	if err != nil {
		return res, fmt.Errorf("failed to generate receipt number: %w", err)
	}

	ses.TableName = table.Name
	receipt := receiptModel.Receipt{
		ID:            uuid.NewString(),
		SessionID:     ses.ID,
		ReceiptNumber: number,
		SessionData:   buildSessionData(ses, items),
		IssuedAt:      now,
		Metadata:      gModel.NewMetadata(user, now),
	}

	if err = s.receiptRepo.InsertTx(ctx, tx, receipt); err != nil {
		return res, fmt.Errorf("failed to insert receipt: %w", err)
	}

	paid := map[string]any{
		model.FieldIsPaid:        true,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}
	if err = s.repo.UpdateTx(ctx, tx, paid, shared.FilterByID(ses.ID, model.FieldID, model.TableName)); err != nil {
		return res, fmt.Errorf("failed to mark session paid: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit transaction: %w", err)
	}

	res.FromModel(receipt)

	s.publishEvent(ctx, billingEvent{
		EventType:     eventReceiptCreated,
		TableID:       table.ID,
		TableName:     table.Name,
		SessionID:     ses.ID,
		ReceiptNumber: number,
		Amount:        ses.TotalAmount.StringFixed(2),
		Operator:      user,
	})
	go func() {
		s.invalidateCaches(ctx)
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheReceiptPrefix)
	}()

	return res, nil
}

// ResetTable clears the table for the next customer. It refuses while a
// session is still running; a stopped-but-unreceipted session is tolerated
// (a walkout) and simply marked reset.
func (s *serviceImpl) ResetTable(ctx context.Context, tableID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResetTable")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	tx, err := s.tableRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	table, err := s.tableRepo.GetForUpdateTx(ctx, tx, tableID)
	if err != nil {
		return fmt.Errorf("failed to lock table: %w", err)
	}

	if table.ID == constant.Empty {
		return failure.NotFound("table not found") // nolint:wrapcheck
	}

	ses, err := s.repo.GetLatestByTableTx(ctx, tx, tableID)
	if err != nil {
		return fmt.Errorf("failed to get latest session: %w", err)
	}

	if ses.ID != constant.Empty && ses.IsActive() {
		return failure.Conflict("table has an active session") // nolint:wrapcheck
	}

	now := timezone.Now()

	if ses.ID != constant.Empty {
		reset := map[string]any{
			model.FieldIsReset:       true,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}
		if err = s.repo.UpdateTx(ctx, tx, reset, shared.FilterByID(ses.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to mark session reset: %w", err)
		}
	}

	if err = s.occupyTableTx(ctx, tx, tableID, tableModel.StatusAvailable, user); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishEvent(ctx, billingEvent{
		EventType: eventTableReset,
		TableID:   table.ID,
		TableName: table.Name,
		SessionID: ses.ID,
		Operator:  user,
	})
	go s.invalidateCaches(ctx)

	return nil
}

// lockTableWithActiveSession locks the table row and resolves its running
// session, failing with a conflict when there is none.
func (s *serviceImpl) lockTableWithActiveSession(ctx context.Context, tx *sqlx.Tx, tableID string) (tableModel.Table, model.Session, error) {
	table, err := s.tableRepo.GetForUpdateTx(ctx, tx, tableID)
	if err != nil {
		return table, model.Session{}, fmt.Errorf("failed to lock table: %w", err)
	}

	if table.ID == constant.Empty {
		return table, model.Session{}, failure.NotFound("table not found") // nolint:wrapcheck
	}

	ses, err := s.repo.GetActiveByTableTx(ctx, tx, tableID)
	if err != nil {
		return table, ses, fmt.Errorf("failed to get active session: %w", err)
	}

	if ses.ID == constant.Empty {
		return table, ses, failure.Conflict("table has no active session") // nolint:wrapcheck
	}

	return table, ses, nil
}

// freezeSessionTx recomputes the products amount from the line items, stamps
// the end time and persists the frozen amounts.
func (s *serviceImpl) freezeSessionTx(ctx context.Context, tx *sqlx.Tx, ses *model.Session, user string) error {
	productsAmount, err := s.repo.SumProductsTx(ctx, tx, ses.ID)
	if err != nil {
		return fmt.Errorf("failed to sum session products: %w", err)
	}

	ses.ProductsAmount = productsAmount
	ses.Freeze(timezone.Now())

	frozen := map[string]any{
		model.FieldEndTime:        *ses.EndTime,
		model.FieldGamingAmount:   ses.GamingAmount,
		model.FieldProductsAmount: ses.ProductsAmount,
		model.FieldTotalAmount:    ses.TotalAmount,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user,
	}
	if err := s.repo.UpdateTx(ctx, tx, frozen, shared.FilterByID(ses.ID, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to freeze session: %w", err)
	}

	return nil
}

func (s *serviceImpl) refreshProductsAmountTx(ctx context.Context, tx *sqlx.Tx, ses *model.Session, user string) error {
	productsAmount, err := s.repo.SumProductsTx(ctx, tx, ses.ID)
	if err != nil {
		return fmt.Errorf("failed to sum session products: %w", err)
	}

	ses.ProductsAmount = productsAmount

	update := map[string]any{
		model.FieldProductsAmount: productsAmount,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user,
	}
	if err := s.repo.UpdateTx(ctx, tx, update, shared.FilterByID(ses.ID, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to update session products amount: %w", err)
	}

	return nil
}

func (s *serviceImpl) occupyTableTx(ctx context.Context, tx *sqlx.Tx, tableID, status, user string) error {
	update := map[string]any{
		tableModel.FieldStatus:   status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	if err := s.tableRepo.UpdateTx(ctx, tx, update, shared.FilterByID(tableID, tableModel.FieldID, tableModel.TableName)); err != nil {
		return fmt.Errorf("failed to update table status: %w", err)
	}

	return nil
}

func (s *serviceImpl) recordStockChangeTx(ctx context.Context, tx *sqlx.Tx, product catalogModel.Product, movementType string, quantity, newStock int, sessionProductID *string, notes, user string) error {
	if err := s.productRepo.UpdateStockTx(ctx, tx, product.ID, newStock); err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}

	movement := catalogModel.StockMovement{
		ID:               uuid.NewString(),
		ProductID:        product.ID,
		MovementType:     movementType,
		Quantity:         quantity,
		OldStock:         product.CurrentStock,
		NewStock:         newStock,
		Notes:            notes,
		SessionProductID: sessionProductID,
		Metadata:         gModel.NewMetadata(user, timezone.Now()),
	}
	if err := s.movementRepo.InsertTx(ctx, tx, movement); err != nil {
		return fmt.Errorf("failed to insert stock movement: %w", err)
	}

	return nil
}

func buildSessionData(ses model.Session, items []model.SessionProduct) receiptModel.SessionData {
	lineItems := make([]receiptModel.LineItemData, len(items))
	for i, item := range items {
		lineItems[i] = receiptModel.LineItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TotalPrice:  item.TotalPrice.StringFixed(2),
		}
	}

	return receiptModel.SessionData{
		SessionID:       ses.ID,
		TableID:         ses.TableID,
		TableName:       ses.TableName,
		StartTime:       ses.StartTime,
		EndTime:         *ses.EndTime,
		DurationMinutes: ses.DurationMinutes(*ses.EndTime),
		OpeningFee:      ses.OpeningFee.StringFixed(2),
		HourlyRate:      ses.HourlyRate.StringFixed(2),
		GamingAmount:    ses.GamingAmount.StringFixed(2),
		ProductsAmount:  ses.ProductsAmount.StringFixed(2),
		TotalAmount:     ses.TotalAmount.StringFixed(2),
		Notes:           ses.Notes,
		LineItems:       lineItems,
	}
}

func rollbackOnError(tx *sqlx.Tx, err *error) {
	if tx == nil || *err == nil {
		return
	}

	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		log.Error().Err(rbErr).Msg("failed to rollback transaction")
	}
}
