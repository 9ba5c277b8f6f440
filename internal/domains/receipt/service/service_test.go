package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pscafe/config"
	"pscafe/infras/otel/mocks"
	receiptMocks "pscafe/internal/domains/receipt/mocks"
	"pscafe/internal/domains/receipt/model"
	"pscafe/internal/domains/receipt/service"
	cacheMocks "pscafe/shared/cache/mocks"
	gDto "pscafe/shared/dto"
	"pscafe/shared/failure"
)

func newReceiptService(ctrl *gomock.Controller) (service.Receipt, *receiptMocks.MockReceipt, *cacheMocks.MockRedisCache) {
	mockRepo := receiptMocks.NewMockReceipt(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	return svc, mockRepo, mockCache
}

func TestReceiptService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, mockCache := newReceiptService(ctrl)
		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Receipt{}, nil)

		_, err := svc.Get(ctx, "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("renders the frozen session snapshot", func(t *testing.T) {
		svc, mockRepo, mockCache := newReceiptService(ctrl)
		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))

		issuedAt := time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)
		receipt := model.Receipt{
			ID:            "receipt-1",
			SessionID:     "session-1",
			ReceiptNumber: "F20250601001",
			IssuedAt:      issuedAt,
			SessionData: model.SessionData{
				SessionID:       "session-1",
				TableName:       "PS-1",
				DurationMinutes: 90,
				GamingAmount:    "170.00",
				ProductsAmount:  "24.00",
				TotalAmount:     "194.00",
			},
		}
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(receipt, nil)

		res, err := svc.Get(ctx, "receipt-1")

		assert.NoError(t, err)
		assert.Equal(t, "F20250601001", res.ReceiptNumber)
		assert.Equal(t, "PS-1", res.SessionData.TableName)
		assert.Equal(t, "194.00", res.SessionData.TotalAmount)
	})
}

func TestReceiptService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newReceiptService(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Receipt{
		{ID: "receipt-1", ReceiptNumber: "F20250601001"},
	}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Receipts, 1)
	assert.Equal(t, 1, res.TotalData)
}

func TestReceiptService_Count_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockCache := newReceiptService(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, value any) error {
			count, _ := value.(*int)
			*count = 12

			return nil
		})

	res, err := svc.Count(context.Background(), gDto.QueryParams{}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 12, res)
}
