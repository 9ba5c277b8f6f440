package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pscafe/config"
	"pscafe/infras/kafka"
	"pscafe/infras/otel"
	catalogRepo "pscafe/internal/domains/catalog/repository"
	receiptDto "pscafe/internal/domains/receipt/model/dto"
	receiptRepo "pscafe/internal/domains/receipt/repository"
	"pscafe/internal/domains/session/model"
	"pscafe/internal/domains/session/model/dto"
	"pscafe/internal/domains/session/repository"
	tableRepo "pscafe/internal/domains/table/repository"
	"pscafe/shared"
	"pscafe/shared/cache"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/failure"
	"pscafe/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetSession    = "session:get"
	cacheGetAllSession = "session:gets"
	cacheCountSession  = "session:count"

	cacheTablePrefix   = "table"
	cacheReceiptPrefix = "receipt"
	cacheProductPrefix = "product"
)

type Session interface {
	Start(ctx context.Context, tableID string, req dto.StartSessionRequest) (dto.SessionResponse, error)
	Stop(ctx context.Context, tableID string) (dto.SessionResponse, error)
	AddProduct(ctx context.Context, tableID string, req dto.AddProductRequest) (dto.SessionResponse, error)
	RemoveProduct(ctx context.Context, tableID string, req dto.RemoveProductRequest) (dto.SessionResponse, error)
	CreateReceipt(ctx context.Context, tableID string) (receiptDto.ReceiptResponse, error)
	ResetTable(ctx context.Context, tableID string) error
	Get(ctx context.Context, id string) (dto.SessionResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSessionsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo         repository.Session
	tableRepo    tableRepo.Table
	productRepo  catalogRepo.Product
	movementRepo catalogRepo.StockMovement
	receiptRepo  receiptRepo.Receipt
	cfg          *config.Config
	cache        cache.RedisCache
	kafka        kafka.Client
	otel         otel.Otel
}

func New(
	repo repository.Session,
	tableRepo tableRepo.Table,
	productRepo catalogRepo.Product,
	movementRepo catalogRepo.StockMovement,
	receiptRepo receiptRepo.Receipt,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	otel otel.Otel,
) Session {
	return &serviceImpl{
		repo:         repo,
		tableRepo:    tableRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		receiptRepo:  receiptRepo,
		cfg:          cfg,
		cache:        cache,
		kafka:        kafka,
		otel:         otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	ses, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get session")

		return res, fmt.Errorf("failed to get session: %w", err)
	}

	if ses.ID == constant.Empty {
		return res, failure.NotFound("session not found") // nolint:wrapcheck
	}

	items, err := s.repo.GetProducts(ctx, ses.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get session products")

		return res, fmt.Errorf("failed to get session products: %w", err)
	}

	res.FromModel(ses, timezone.Now())
	res.WithProducts(items)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSessionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count sessions")

		return res, fmt.Errorf("failed to count sessions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get sessions")

		return res, fmt.Errorf("failed to get sessions: %w", err)
	}

	res.FromModels(models, total, req.Limit, timezone.Now())

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountSession, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for session count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count sessions")

		return res, fmt.Errorf("failed to count sessions: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save session count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context) {
	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheGetSession)
	shared.InvalidateCaches(c, s.cache, cacheGetAllSession)
	shared.InvalidateCaches(c, s.cache, cacheCountSession)
	shared.InvalidateCaches(c, s.cache, cacheTablePrefix)
}

// invalidateStockCaches additionally drops the catalog caches after an
// operation that moved stock, so cached product listings do not keep serving
// the old levels.
func (s *serviceImpl) invalidateStockCaches(ctx context.Context) {
	s.invalidateCaches(ctx)

	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheProductPrefix)
}
