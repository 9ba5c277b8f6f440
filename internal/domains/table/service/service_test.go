package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"pscafe/config"
	"pscafe/infras/otel/mocks"
	sessionMocks "pscafe/internal/domains/session/mocks"
	sessionModel "pscafe/internal/domains/session/model"
	tableMocks "pscafe/internal/domains/table/mocks"
	"pscafe/internal/domains/table/model"
	"pscafe/internal/domains/table/model/dto"
	"pscafe/internal/domains/table/service"
	"pscafe/shared"
	cacheMocks "pscafe/shared/cache/mocks"
	gDto "pscafe/shared/dto"
	"pscafe/shared/failure"
	"pscafe/shared/timezone"
)

func newTableService(ctrl *gomock.Controller) (service.Table, *tableMocks.MockTable, *sessionMocks.MockSession, *cacheMocks.MockRedisCache) {
	mockRepo := tableMocks.NewMockTable(ctrl)
	mockSessionRepo := sessionMocks.NewMockSession(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockSessionRepo, cfg, mockCache, mocks.NewOtel())

	return svc, mockRepo, mockSessionRepo, mockCache
}

func TestTableService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := shared.OperatorContext(context.Background(), "ayse")

	tests := []struct {
		name      string
		req       dto.CreateTableRequest
		setupMock func(repo *tableMocks.MockTable)
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateTableRequest{
				Name:       "PS-1",
				HourlyRate: "100.00",
				OpeningFee: "20.00",
			},
			setupMock: func(repo *tableMocks.MockTable) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, table model.Table) error {
						assert.Equal(t, "PS-1", table.Name)
						assert.Equal(t, model.StatusAvailable, table.Status)
						assert.Equal(t, "ayse", table.CreatedBy)
						assert.True(t, table.HourlyRate.Equal(decimal.NewFromInt(100)))

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "malformed rate",
			req: dto.CreateTableRequest{
				Name:       "PS-2",
				HourlyRate: "hundred",
				OpeningFee: "20.00",
			},
			setupMock: func(repo *tableMocks.MockTable) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, _ := newTableService(ctrl)
			tt.setupMock(mockRepo)

			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTableService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, _, _ := newTableService(ctrl)
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Table{}, nil)

		_, err := svc.Get(ctx, "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("occupied table embeds its running session", func(t *testing.T) {
		svc, mockRepo, mockSessionRepo, _ := newTableService(ctrl)

		table := model.Table{
			ID:         "table-1",
			Name:       "PS-1",
			HourlyRate: decimal.NewFromInt(100),
			OpeningFee: decimal.NewFromInt(20),
			Status:     model.StatusOccupied,
		}
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(table, nil)

		active := sessionModel.Session{
			ID:         "session-1",
			TableID:    "table-1",
			StartTime:  timezone.Now().Add(-30 * time.Minute),
			OpeningFee: decimal.NewFromInt(20),
			HourlyRate: decimal.NewFromInt(100),
		}
		mockSessionRepo.EXPECT().GetActiveByTable(gomock.Any(), "table-1").Return(active, nil)

		res, err := svc.Get(ctx, "table-1")

		assert.NoError(t, err)
		assert.Equal(t, "table-1", res.ID)
		if assert.NotNil(t, res.CurrentSession) {
			assert.Equal(t, "session-1", res.CurrentSession.ID)
			assert.Equal(t, 30, res.CurrentSession.DurationMinutes)
			// Opening fee 20 plus half an hour at 100.
			assert.Equal(t, "70.00", res.CurrentSession.GamingAmount)
		}
	})

	t.Run("available table has no session", func(t *testing.T) {
		svc, mockRepo, mockSessionRepo, _ := newTableService(ctrl)

		table := model.Table{ID: "table-2", Name: "PS-2", Status: model.StatusAvailable}
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(table, nil)
		mockSessionRepo.EXPECT().GetActiveByTable(gomock.Any(), "table-2").Return(sessionModel.Session{}, nil)

		res, err := svc.Get(ctx, "table-2")

		assert.NoError(t, err)
		assert.Nil(t, res.CurrentSession)
	})
}

func TestTableService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("refuses while a session is running", func(t *testing.T) {
		svc, mockRepo, mockSessionRepo, _ := newTableService(ctrl)
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockSessionRepo.EXPECT().GetActiveByTable(gomock.Any(), "table-1").Return(sessionModel.Session{ID: "session-1"}, nil)

		err := svc.Delete(ctx, "table-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("deletes an idle table", func(t *testing.T) {
		svc, mockRepo, mockSessionRepo, _ := newTableService(ctrl)
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockSessionRepo.EXPECT().GetActiveByTable(gomock.Any(), "table-1").Return(sessionModel.Session{}, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(ctx, "table-1"))
	})
}

func TestTableService_DashboardStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockSessionRepo, mockCache := newTableService(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cacheMiss())

	mockRepo.EXPECT().Stats(gomock.Any()).Return(model.Stats{TotalTables: 4, AvailableTables: 3, OccupiedTables: 1}, nil)
	mockSessionRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	mockSessionRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(5, nil)
	mockSessionRepo.EXPECT().TodayRevenue(gomock.Any(), gomock.Any()).Return(decimal.RequireFromString("730.50"), nil)

	res, err := svc.DashboardStats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 4, res.TotalTables)
	assert.Equal(t, 3, res.AvailableTables)
	assert.Equal(t, 1, res.OccupiedTables)
	assert.Equal(t, 1, res.ActiveSessions)
	assert.Equal(t, 5, res.TodaySessions)
	assert.Equal(t, "730.50", res.TodayRevenue)
}

func TestTableService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockSessionRepo, mockCache := newTableService(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cacheMiss())

	tables := []model.Table{
		{ID: "table-1", Name: "PS-1", Status: model.StatusOccupied},
		{ID: "table-2", Name: "PS-2", Status: model.StatusAvailable},
	}
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(tables, nil)

	active := sessionModel.Session{
		ID:         "session-1",
		TableID:    "table-1",
		StartTime:  timezone.Now().Add(-10 * time.Minute),
		HourlyRate: decimal.NewFromInt(100),
	}
	mockSessionRepo.EXPECT().GetActiveByTables(gomock.Any(), []string{"table-1", "table-2"}).Return([]sessionModel.Session{active}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Tables, 2)
	assert.NotNil(t, res.Tables[0].CurrentSession)
	assert.Nil(t, res.Tables[1].CurrentSession)
}

// Polling the floor view must tick the timer and the gaming amount on every
// call. Only the count may go through the cache; a rendered response served
// back verbatim would freeze a session's amounts until the next mutation.
func TestTableService_GetAll_RendersLiveAmountsEveryCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockSessionRepo, mockCache := newTableService(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cacheMiss()).Times(2)

	tables := []model.Table{{ID: "table-1", Name: "PS-1", Status: model.StatusOccupied}}
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil).Times(2)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(tables, nil).Times(2)

	active := sessionModel.Session{
		ID:         "session-1",
		TableID:    "table-1",
		StartTime:  timezone.Now().Add(-70 * time.Minute),
		OpeningFee: decimal.NewFromInt(20),
		HourlyRate: decimal.NewFromInt(100),
	}
	mockSessionRepo.EXPECT().GetActiveByTables(gomock.Any(), []string{"table-1"}).Return([]sessionModel.Session{active}, nil).Times(2)

	for i := 0; i < 2; i++ {
		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		if assert.NotNil(t, res.Tables[0].CurrentSession) {
			assert.Equal(t, 70, res.Tables[0].CurrentSession.DurationMinutes)
			// Opening fee 20 plus 70 minutes at 100 an hour.
			assert.Equal(t, "136.67", res.Tables[0].CurrentSession.GamingAmount)
		}
	}
}

func cacheMiss() error {
	return errors.New("cache miss")
}
