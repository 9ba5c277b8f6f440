package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"pscafe/internal/domains/catalog/model"
	"pscafe/internal/domains/catalog/model/dto"
	"pscafe/shared"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	"pscafe/shared/failure"
	"pscafe/shared/timezone"
	"strings"

	"github.com/rs/zerolog/log"
)

const productImageDirectory = "products"

func (s *serviceImpl) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateProduct")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)

	categoryExists, err := s.categoryRepo.Exist(ctx, shared.FilterByID(req.CategoryID, model.FieldID, model.CategoryTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if category exists")

		return fmt.Errorf("failed to check if category exists: %w", err)
	}

	if !categoryExists {
		return failure.BadRequestFromString("category does not exist") // nolint:wrapcheck
	}

	product, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse product request")

		return failure.BadRequestFromString(fmt.Sprintf("invalid price format: %v", err)) // nolint:wrapcheck
	}

	if err = s.productRepo.Insert(ctx, product); err != nil {
		log.Error().Err(err).Msg("failed to create product")

		if isPqError(err, constant.PqErrorCodeUniqueViolation) {
			return failure.Conflict("product name already exists") // nolint:wrapcheck
		}

		return fmt.Errorf("failed to create product: %w", err)
	}

	go s.invalidateProductCaches(ctx)

	return nil
}

func (s *serviceImpl) GetProducts(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProductsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetProducts")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProduct, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for products")

		return res, nil
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count products")

		return res, fmt.Errorf("failed to count products: %w", err)
	}

	models, err := s.productRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get products")

		return res, fmt.Errorf("failed to get products: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save products to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetProduct(ctx context.Context, id string) (res dto.ProductResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetProduct")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetProduct, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for product")

		return res, nil
	}

	product, err := s.productRepo.Get(ctx, shared.FilterByID(id, model.FieldID, model.ProductTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get product")

		return res, fmt.Errorf("failed to get product: %w", err)
	}

	if product.ID == constant.Empty {
		return res, failure.NotFound("product not found") // nolint:wrapcheck
	}

	res.FromModel(product)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save product to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateProduct(ctx context.Context, req dto.UpdateProductRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProduct")
	defer scope.End()

	if req == (dto.UpdateProductRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user := shared.Operator(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.ProductTableName)

	exist, err := s.productRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if product exists")

		return fmt.Errorf("failed to check if product exists: %w", err)
	}

	if !exist {
		return failure.NotFound("product not found") // nolint:wrapcheck
	}

	if req.CategoryID != constant.Empty {
		categoryExists, err := s.categoryRepo.Exist(ctx, shared.FilterByID(req.CategoryID, model.FieldID, model.CategoryTableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if category exists")

			return fmt.Errorf("failed to check if category exists: %w", err)
		}

		if !categoryExists {
			return failure.BadRequestFromString("category does not exist") // nolint:wrapcheck
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.productRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update product")

		return fmt.Errorf("failed to update product: %w", err)
	}

	go s.invalidateProductCaches(ctx)

	return nil
}

func (s *serviceImpl) DeleteProduct(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteProduct")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.ProductTableName)

	exist, err := s.productRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if product exists")

		return fmt.Errorf("failed to check if product exists: %w", err)
	}

	if !exist {
		return failure.NotFound("product not found") // nolint:wrapcheck
	}

	if err := s.productRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete product")

		if isPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict("product has been sold and cannot be deleted") // nolint:wrapcheck
		}

		return fmt.Errorf("failed to delete product: %w", err)
	}

	go s.invalidateProductCaches(ctx)

	return nil
}

// ProductsByCategory returns the ordering screen layout: every category with
// its active products.
func (s *serviceImpl) ProductsByCategory(ctx context.Context) (res dto.ProductsByCategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ProductsByCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheProductByCategory, "all")

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for products by category")

		return res, nil
	}

	sort := gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}

	categories, err := s.categoryRepo.GetAll(ctx, sort, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return res, fmt.Errorf("failed to get categories: %w", err)
	}

	activeOnly := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsActive,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	products, err := s.productRepo.GetAll(ctx, sort, activeOnly)
	if err != nil {
		log.Error().Err(err).Msg("failed to get products")

		return res, fmt.Errorf("failed to get products: %w", err)
	}

	res.FromModels(categories, products)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save products by category to cache")
		}
	}()

	return res, nil
}

// UploadImage stores the product image on object storage and saves the
// public URL on the product.
func (s *serviceImpl) UploadImage(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.Operator(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.ProductTableName)

	product, err := s.productRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get product")

		return res, fmt.Errorf("failed to get product: %w", err)
	}

	if product.ID == constant.Empty {
		return res, failure.NotFound("product not found") // nolint:wrapcheck
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		return res, failure.BadRequestFromString("unsupported image format") // nolint:wrapcheck
	}

	fileName := product.ID + ext

	url, err := s.s3.UploadFile(ctx, s.cfg.External.S3.BucketName, productImageDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload product image")

		return res, fmt.Errorf("failed to upload product image: %w", err)
	}

	update := map[string]any{
		model.FieldImageURL:      url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.productRepo.Update(ctx, update, filter); err != nil {
		log.Error().Err(err).Msg("failed to save product image url")

		return res, fmt.Errorf("failed to save product image url: %w", err)
	}

	go s.invalidateProductCaches(ctx)

	return dto.UploadImageResponse{ImageURL: url}, nil
}
