package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pscafe/config"
	"pscafe/infras/otel/mocks"
	catalogMocks "pscafe/internal/domains/catalog/mocks"
	catalogModel "pscafe/internal/domains/catalog/model"
	receiptMocks "pscafe/internal/domains/receipt/mocks"
	sessionMocks "pscafe/internal/domains/session/mocks"
	"pscafe/internal/domains/session/model"
	"pscafe/internal/domains/session/model/dto"
	"pscafe/internal/domains/session/service"
	tableMocks "pscafe/internal/domains/table/mocks"
	tableModel "pscafe/internal/domains/table/model"
	cacheMocks "pscafe/shared/cache/mocks"
	gDto "pscafe/shared/dto"
	"pscafe/shared/failure"
	"pscafe/shared/timezone"

	kafkaMocks "pscafe/infras/kafka/mocks"
)

type sessionMockSet struct {
	repo     *sessionMocks.MockSession
	table    *tableMocks.MockTable
	product  *catalogMocks.MockProduct
	movement *catalogMocks.MockStockMovement
	receipt  *receiptMocks.MockReceipt
	cache    *cacheMocks.MockRedisCache
	kafka    *kafkaMocks.MockClient
}

func newSessionService(ctrl *gomock.Controller) (service.Session, sessionMockSet) {
	set := sessionMockSet{
		repo:     sessionMocks.NewMockSession(ctrl),
		table:    tableMocks.NewMockTable(ctrl),
		product:  catalogMocks.NewMockProduct(ctrl),
		movement: catalogMocks.NewMockStockMovement(ctrl),
		receipt:  receiptMocks.NewMockReceipt(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		kafka:    kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Billing.ReceiptPrefix = "F"
	cfg.Kafka.BillingTopic = "billing-events"

	svc := service.New(set.repo, set.table, set.product, set.movement, set.receipt, cfg, set.cache, set.kafka, mocks.NewOtel())

	return svc, set
}

func occupiedTable() tableModel.Table {
	return tableModel.Table{
		ID:         "table-1",
		Name:       "PS-1",
		HourlyRate: decimal.NewFromInt(100),
		OpeningFee: decimal.NewFromInt(20),
		Status:     tableModel.StatusOccupied,
	}
}

func availableTable() tableModel.Table {
	table := occupiedTable()
	table.Status = tableModel.StatusAvailable

	return table
}

func activeSession() model.Session {
	return model.Session{
		ID:         "session-1",
		TableID:    "table-1",
		StartTime:  timezone.Now().Add(-time.Hour),
		OpeningFee: decimal.NewFromInt(20),
		HourlyRate: decimal.NewFromInt(100),
	}
}

func TestSessionService_Start(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(set sessionMockSet)
		wantCode  int
	}{
		{
			name: "table not found",
			setupMock: func(set sessionMockSet) {
				set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, nil)
				set.table.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "table-1").Return(tableModel.Table{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "table not available",
			setupMock: func(set sessionMockSet) {
				set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, nil)
				set.table.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "table-1").Return(occupiedTable(), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "table already has an active session",
			setupMock: func(set sessionMockSet) {
				set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, nil)
				set.table.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "table-1").Return(availableTable(), nil)
				set.repo.EXPECT().GetActiveByTableTx(gomock.Any(), gomock.Any(), "table-1").Return(activeSession(), nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newSessionService(ctrl)
			tt.setupMock(set)

			_, err := svc.Start(ctx, "table-1", dto.StartSessionRequest{})

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestSessionService_Start_BeginTxError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, set := newSessionService(ctrl)
	set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := svc.Start(context.Background(), "table-1", dto.StartSessionRequest{})
	assert.Error(t, err)
}

func TestSessionService_Stop_NoActiveSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, set := newSessionService(ctrl)
	set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, nil)
	set.table.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "table-1").Return(occupiedTable(), nil)
	set.repo.EXPECT().GetActiveByTableTx(gomock.Any(), gomock.Any(), "table-1").Return(model.Session{}, nil)

	_, err := svc.Stop(context.Background(), "table-1")

	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestSessionService_AddProduct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	req := dto.AddProductRequest{ProductID: "product-1", Quantity: 3}

	tests := []struct {
		name     string
		product  catalogModel.Product
		wantCode int
	}{
		{
			name:     "product not found",
			product:  catalogModel.Product{},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "product not active",
			product:  catalogModel.Product{ID: "product-1", IsActive: false, CurrentStock: 10},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "insufficient stock",
			product:  catalogModel.Product{ID: "product-1", IsActive: true, CurrentStock: 2},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newSessionService(ctrl)
			set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, nil)
			set.table.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "table-1").Return(occupiedTable(), nil)
			set.repo.EXPECT().GetActiveByTableTx(gomock.Any(), gomock.Any(), "table-1").Return(activeSession(), nil)
			set.product.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "product-1").Return(tt.product, nil)

			_, err := svc.AddProduct(ctx, "table-1", req)

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestSessionService_RemoveProduct_NotOnSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, set := newSessionService(ctrl)
	set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, nil)
	set.table.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "table-1").Return(occupiedTable(), nil)
	set.repo.EXPECT().GetActiveByTableTx(gomock.Any(), gomock.Any(), "table-1").Return(activeSession(), nil)
	set.repo.EXPECT().GetProductTx(gomock.Any(), gomock.Any(), "item-9", "session-1").Return(model.SessionProduct{}, nil)

	_, err := svc.RemoveProduct(context.Background(), "table-1", dto.RemoveProductRequest{SessionProductID: "item-9"})

	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestSessionService_CreateReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	paidSession := activeSession()
	end := paidSession.StartTime.Add(time.Hour)
	paidSession.EndTime = &end
	paidSession.IsPaid = true

	tests := []struct {
		name    string
		session model.Session
	}{
		{name: "no session to receipt", session: model.Session{}},
		{name: "session already receipted", session: paidSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newSessionService(ctrl)
			set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, nil)
			set.table.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "table-1").Return(occupiedTable(), nil)
			set.repo.EXPECT().GetLatestByTableTx(gomock.Any(), gomock.Any(), "table-1").Return(tt.session, nil)

			_, err := svc.CreateReceipt(ctx, "table-1")

			assert.Error(t, err)
			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		})
	}
}

func TestSessionService_ResetTable_ActiveSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, set := newSessionService(ctrl)
	set.table.EXPECT().BeginTx(gomock.Any()).Return(nil, nil)
	set.table.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "table-1").Return(occupiedTable(), nil)
	set.repo.EXPECT().GetLatestByTableTx(gomock.Any(), gomock.Any(), "table-1").Return(activeSession(), nil)

	err := svc.ResetTable(context.Background(), "table-1")

	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestSessionService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		svc, set := newSessionService(ctrl)
		set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Session{}, nil)

		_, err := svc.Get(ctx, "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("active session renders live amounts", func(t *testing.T) {
		svc, set := newSessionService(ctrl)

		ses := activeSession()
		ses.TableName = "PS-1"
		set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ses, nil)
		set.repo.EXPECT().GetProducts(gomock.Any(), "session-1").Return(nil, nil)

		res, err := svc.Get(ctx, "session-1")

		assert.NoError(t, err)
		assert.Equal(t, "session-1", res.ID)
		assert.Equal(t, "PS-1", res.TableName)
		// An hour in: opening fee 20 plus one hour at 100.
		assert.Equal(t, "120.00", res.GamingAmount)
	})
}

// beginMockTx hands out a transaction backed by a driver stub so the
// lifecycle operations can run through commit.
func beginMockTx(t *testing.T) (*sqlx.Tx, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "sqlmock")

	mock.ExpectBegin()

	tx, err := conn.Beginx()
	assert.NoError(t, err)

	return tx, mock
}

// clearedPrefixes records the cache prefixes dropped by the async
// invalidation goroutines so tests can wait on them.
func clearedPrefixes(set sessionMockSet) (*sync.Mutex, map[string]bool) {
	mu := &sync.Mutex{}
	cleared := make(map[string]bool)

	set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, pattern string) error {
			mu.Lock()
			cleared[pattern] = true
			mu.Unlock()

			return nil
		}).AnyTimes()

	return mu, cleared
}

func TestSessionService_AddProduct_DecrementsStockAndRecordsSale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	tx, mock := beginMockTx(t)

	svc, set := newSessionService(ctrl)
	mu, cleared := clearedPrefixes(set)
	set.kafka.EXPECT().SendMessages(gomock.Any(), "billing-events", gomock.Any()).Return(nil).AnyTimes()

	product := catalogModel.Product{
		ID:           "product-1",
		Name:         "Kola",
		Price:        decimal.RequireFromString("8.00"),
		CurrentStock: 10,
		IsActive:     true,
	}

	set.table.EXPECT().BeginTx(gomock.Any()).Return(tx, nil)
	set.table.EXPECT().GetForUpdateTx(gomock.Any(), tx, "table-1").Return(occupiedTable(), nil)
	set.repo.EXPECT().GetActiveByTableTx(gomock.Any(), tx, "table-1").Return(activeSession(), nil)
	set.product.EXPECT().GetForUpdateTx(gomock.Any(), tx, "product-1").Return(product, nil)

	var itemID string

	set.repo.EXPECT().InsertProductTx(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, item model.SessionProduct) error {
			itemID = item.ID
			assert.Equal(t, 3, item.Quantity)
			assert.Equal(t, "24.00", item.TotalPrice.StringFixed(2))

			return nil
		})
	set.product.EXPECT().UpdateStockTx(gomock.Any(), tx, "product-1", 7).Return(nil)
	set.movement.EXPECT().InsertTx(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, mov catalogModel.StockMovement) error {
			assert.Equal(t, catalogModel.MovementSale, mov.MovementType)
			assert.Equal(t, -3, mov.Quantity)
			assert.Equal(t, 10, mov.OldStock)
			assert.Equal(t, 7, mov.NewStock)
			if assert.NotNil(t, mov.SessionProductID) {
				assert.Equal(t, itemID, *mov.SessionProductID)
			}

			return nil
		})
	set.repo.EXPECT().SumProductsTx(gomock.Any(), tx, "session-1").Return(decimal.RequireFromString("24.00"), nil)
	set.repo.EXPECT().UpdateTx(gomock.Any(), tx, gomock.Any(), gomock.Any()).Return(nil)
	mock.ExpectCommit()
	set.repo.EXPECT().GetProducts(gomock.Any(), "session-1").Return(nil, nil)

	res, err := svc.AddProduct(ctx, "table-1", dto.AddProductRequest{ProductID: "product-1", Quantity: 3})

	assert.NoError(t, err)
	assert.Equal(t, "session-1", res.ID)
	assert.Equal(t, "24.00", res.ProductsAmount)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The catalog caches hold stock levels, so a sale must drop them too.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return cleared["product*"] && cleared["table*"]
	}, time.Second, 10*time.Millisecond)
}

func TestSessionService_RemoveProduct_RestoresStockAsAdjustment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	tx, mock := beginMockTx(t)

	svc, set := newSessionService(ctrl)
	mu, cleared := clearedPrefixes(set)
	set.kafka.EXPECT().SendMessages(gomock.Any(), "billing-events", gomock.Any()).Return(nil).AnyTimes()

	item := model.SessionProduct{
		ID:         "item-1",
		SessionID:  "session-1",
		ProductID:  "product-1",
		Quantity:   2,
		UnitPrice:  decimal.RequireFromString("8.00"),
		TotalPrice: decimal.RequireFromString("16.00"),
	}
	product := catalogModel.Product{
		ID:           "product-1",
		Name:         "Kola",
		Price:        decimal.RequireFromString("8.00"),
		CurrentStock: 5,
		IsActive:     true,
	}

	set.table.EXPECT().BeginTx(gomock.Any()).Return(tx, nil)
	set.table.EXPECT().GetForUpdateTx(gomock.Any(), tx, "table-1").Return(occupiedTable(), nil)
	set.repo.EXPECT().GetActiveByTableTx(gomock.Any(), tx, "table-1").Return(activeSession(), nil)
	set.repo.EXPECT().GetProductTx(gomock.Any(), tx, "item-1", "session-1").Return(item, nil)
	set.repo.EXPECT().DeleteProductTx(gomock.Any(), tx, "item-1").Return(nil)
	set.product.EXPECT().GetForUpdateTx(gomock.Any(), tx, "product-1").Return(product, nil)
	set.product.EXPECT().UpdateStockTx(gomock.Any(), tx, "product-1", 7).Return(nil)
	set.movement.EXPECT().InsertTx(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, mov catalogModel.StockMovement) error {
			assert.Equal(t, catalogModel.MovementAdjustment, mov.MovementType)
			assert.Equal(t, 2, mov.Quantity)
			assert.Equal(t, 5, mov.OldStock)
			assert.Equal(t, 7, mov.NewStock)
			assert.Nil(t, mov.SessionProductID)

			return nil
		})
	set.repo.EXPECT().SumProductsTx(gomock.Any(), tx, "session-1").Return(decimal.Zero, nil)
	set.repo.EXPECT().UpdateTx(gomock.Any(), tx, gomock.Any(), gomock.Any()).Return(nil)
	mock.ExpectCommit()
	set.repo.EXPECT().GetProducts(gomock.Any(), "session-1").Return(nil, nil)

	res, err := svc.RemoveProduct(ctx, "table-1", dto.RemoveProductRequest{SessionProductID: "item-1"})

	assert.NoError(t, err)
	assert.Equal(t, "0.00", res.ProductsAmount)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return cleared["product*"]
	}, time.Second, 10*time.Millisecond)
}

func TestSessionService_Count_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, set := newSessionService(ctrl)
	set.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, value any) error {
			count, _ := value.(*int)
			*count = 7

			return nil
		})

	res, err := svc.Count(context.Background(), gDto.QueryParams{}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 7, res)
}
