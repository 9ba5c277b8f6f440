package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"pscafe/config"
	"pscafe/infras/otel"
	"pscafe/infras/s3"
	"pscafe/internal/domains/catalog/model"
	"pscafe/internal/domains/catalog/model/dto"
	"pscafe/internal/domains/catalog/repository"
	"pscafe/shared"
	"pscafe/shared/cache"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/failure"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetCategory    = "category:get"
	cacheGetAllCategory = "category:gets"
	cacheCountCategory  = "category:count"

	cacheGetProduct        = "product:get"
	cacheGetAllProduct     = "product:gets"
	cacheCountProduct      = "product:count"
	cacheProductByCategory = "product:by_category"
)

type Catalog interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) error
	GetCategories(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCategoriesResponse, error)
	UpdateCategory(ctx context.Context, req dto.UpdateCategoryRequest, id string) error
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, req dto.CreateProductRequest) error
	GetProducts(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProductsResponse, error)
	GetProduct(ctx context.Context, id string) (dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, req dto.UpdateProductRequest, id string) error
	DeleteProduct(ctx context.Context, id string) error
	ProductsByCategory(ctx context.Context) (dto.ProductsByCategoryResponse, error)
	UploadImage(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (dto.UploadImageResponse, error)

	AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (dto.ProductResponse, error)
	StockMovements(ctx context.Context, productID string, req gDto.QueryParams) (dto.GetStockMovementsResponse, error)
}

type serviceImpl struct {
	categoryRepo repository.Category
	productRepo  repository.Product
	movementRepo repository.StockMovement
	cfg          *config.Config
	cache        cache.RedisCache
	s3           s3.S3
	otel         otel.Otel
}

func New(
	categoryRepo repository.Category,
	productRepo repository.Product,
	movementRepo repository.StockMovement,
	cfg *config.Config,
	cache cache.RedisCache,
	s3 s3.S3,
	otel otel.Otel,
) Catalog {
	return &serviceImpl{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		cfg:          cfg,
		cache:        cache,
		s3:           s3,
		otel:         otel,
	}
}

func (s *serviceImpl) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	if err = s.categoryRepo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create category")

		if isPqError(err, constant.PqErrorCodeUniqueViolation) {
			return failure.Conflict("category name already exists") // nolint:wrapcheck
		}

		return fmt.Errorf("failed to create category: %w", err)
	}

	go s.invalidateCategoryCaches(ctx)

	return nil
}

func (s *serviceImpl) GetCategories(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCategoriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCategory, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for categories")

		return res, nil
	}

	total, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count categories")

		return res, fmt.Errorf("failed to count categories: %w", err)
	}

	models, err := s.categoryRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return res, fmt.Errorf("failed to get categories: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save categories to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateCategory(ctx context.Context, req dto.UpdateCategoryRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCategory")
	defer scope.End()

	user := shared.Operator(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.CategoryTableName)

	exist, err := s.categoryRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if category exists")

		return fmt.Errorf("failed to check if category exists: %w", err)
	}

	if !exist {
		return failure.NotFound("category not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.categoryRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update category")

		return fmt.Errorf("failed to update category: %w", err)
	}

	go s.invalidateCategoryCaches(ctx)

	return nil
}

func (s *serviceImpl) DeleteCategory(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteCategory")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.CategoryTableName)

	exist, err := s.categoryRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if category exists")

		return fmt.Errorf("failed to check if category exists: %w", err)
	}

	if !exist {
		return failure.NotFound("category not found") // nolint:wrapcheck
	}

	if err := s.categoryRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete category")

		if isPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict("category still has products") // nolint:wrapcheck
		}

		return fmt.Errorf("failed to delete category: %w", err)
	}

	go s.invalidateCategoryCaches(ctx)

	return nil
}

func (s *serviceImpl) invalidateCategoryCaches(ctx context.Context) {
	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheGetCategory)
	shared.InvalidateCaches(c, s.cache, cacheGetAllCategory)
	shared.InvalidateCaches(c, s.cache, cacheCountCategory)
	shared.InvalidateCaches(c, s.cache, cacheProductByCategory)
}

func (s *serviceImpl) invalidateProductCaches(ctx context.Context) {
	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheGetProduct)
	shared.InvalidateCaches(c, s.cache, cacheGetAllProduct)
	shared.InvalidateCaches(c, s.cache, cacheCountProduct)
	shared.InvalidateCaches(c, s.cache, cacheProductByCategory)
}

func isPqError(err error, code string) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
