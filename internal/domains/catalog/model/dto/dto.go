package dto

import (
	"pscafe/internal/domains/catalog/model"
	"pscafe/shared"
	"pscafe/shared/constant"
	gDto "pscafe/shared/dto"
	gModel "pscafe/shared/model"
	"pscafe/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (c *CreateCategoryRequest) ToModel(user string) model.Category {
	return model.Category{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Metadata: gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateCategoryRequest struct {
	Name string `db:"name" json:"name" validate:"required,max=100"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	gDto.Metadata
}

func (r *CategoryResponse) FromModel(mod model.Category) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Metadata.FromModel(mod.Metadata)
}

type GetCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetCategoriesResponse) FromModels(models []model.Category, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Categories = make([]CategoryResponse, len(models))
	for i, mod := range models {
		r.Categories[i].FromModel(mod)
	}
}

type CreateProductRequest struct {
	CategoryID    string `json:"category_id"     validate:"required"`
	Name          string `json:"name"            validate:"required,max=100"`
	Price         string `json:"price"           validate:"required,numeric"`
	IsActive      *bool  `json:"is_active"       validate:"omitempty"`
	CurrentStock  int    `json:"current_stock"   validate:"omitempty,min=0"`
	MinStockLevel int    `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel int    `json:"max_stock_level" validate:"omitempty,min=0"`
	StockUnit     string `json:"stock_unit"      validate:"omitempty,max=20"`
}

func (c *CreateProductRequest) ToModel(user string) (model.Product, error) {
	price, err := decimal.NewFromString(c.Price)
	if err != nil {
		return model.Product{}, err
	}

	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	stockUnit := c.StockUnit
	if stockUnit == "" {
		stockUnit = "adet"
	}

	return model.Product{
		ID:            uuid.NewString(),
		CategoryID:    c.CategoryID,
		Name:          c.Name,
		Price:         price,
		IsActive:      isActive,
		CurrentStock:  c.CurrentStock,
		MinStockLevel: c.MinStockLevel,
		MaxStockLevel: c.MaxStockLevel,
		StockUnit:     stockUnit,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

type UpdateProductRequest struct {
	CategoryID    string `db:"category_id"     json:"category_id"     validate:"omitempty"`
	Name          string `db:"name"            json:"name"            validate:"omitempty,max=100"`
	Price         string `db:"price"           json:"price"           validate:"omitempty,numeric"`
	IsActive      *bool  `db:"is_active"       json:"is_active"       validate:"omitempty"`
	MinStockLevel int    `db:"min_stock_level" json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel int    `db:"max_stock_level" json:"max_stock_level" validate:"omitempty,min=0"`
	StockUnit     string `db:"stock_unit"      json:"stock_unit"      validate:"omitempty,max=20"`
}

type ProductResponse struct {
	ID            string `json:"id"`
	CategoryID    string `json:"category_id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	IsActive      bool   `json:"is_active"`
	CurrentStock  int    `json:"current_stock"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel int    `json:"max_stock_level"`
	StockUnit     string `json:"stock_unit"`
	StockStatus   string `json:"stock_status"`
	ImageURL      string `json:"image_url,omitempty"`
	gDto.Metadata
}

func (r *ProductResponse) FromModel(mod model.Product) {
	r.ID = mod.ID
	r.CategoryID = mod.CategoryID
	r.Name = mod.Name
	r.Price = mod.Price.StringFixed(2)
	r.IsActive = mod.IsActive
	r.CurrentStock = mod.CurrentStock
	r.MinStockLevel = mod.MinStockLevel
	r.MaxStockLevel = mod.MaxStockLevel
	r.StockUnit = mod.StockUnit
	r.StockStatus = mod.StockStatus()
	r.ImageURL = mod.ImageURL
	r.Metadata.FromModel(mod.Metadata)
}

type GetProductsResponse struct {
	Products  []ProductResponse `json:"products"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetProductsResponse) FromModels(models []model.Product, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Products = make([]ProductResponse, len(models))
	for i, mod := range models {
		r.Products[i].FromModel(mod)
	}
}

// ProductsByCategoryResponse groups active products under their category for
// the ordering screen.
type ProductsByCategoryResponse struct {
	Categories []CategoryProductsResponse `json:"categories"`
}

type CategoryProductsResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Products []ProductResponse `json:"products"`
}

func (r *ProductsByCategoryResponse) FromModels(categories []model.Category, products []model.Product) {
	r.Categories = make([]CategoryProductsResponse, len(categories))

	for i, cat := range categories {
		group := CategoryProductsResponse{
			ID:       cat.ID,
			Name:     cat.Name,
			Products: []ProductResponse{},
		}

		for _, prod := range products {
			if prod.CategoryID != cat.ID {
				continue
			}

			res := ProductResponse{}
			res.FromModel(prod)
			group.Products = append(group.Products, res)
		}

		r.Categories[i] = group
	}
}

type AdjustStockRequest struct {
	Quantity     int    `json:"quantity"      validate:"required,gt=0"`
	MovementType string `json:"movement_type" validate:"required,oneof=in out waste adjustment"`
	Notes        string `json:"notes"         validate:"omitempty,max=255"`
}

type StockMovementResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	MovementType string `json:"movement_type"`
	Quantity     int    `json:"quantity"`
	OldStock     int    `json:"old_stock"`
	NewStock     int    `json:"new_stock"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"created_at"`
	CreatedBy    string `json:"created_by"`
}

func (r *StockMovementResponse) FromModel(mod model.StockMovement) {
	r.ID = mod.ID
	r.ProductID = mod.ProductID
	r.MovementType = mod.MovementType
	r.Quantity = mod.Quantity
	r.OldStock = mod.OldStock
	r.NewStock = mod.NewStock
	r.Notes = mod.Notes
	r.CreatedAt = timezone.Format(mod.CreatedAt, constant.DateFormat)
	r.CreatedBy = mod.CreatedBy
}

type GetStockMovementsResponse struct {
	Movements []StockMovementResponse `json:"movements"`
	TotalPage int                     `json:"total_page"`
	TotalData int                     `json:"total_data"`
}

func (r *GetStockMovementsResponse) FromModels(models []model.StockMovement, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Movements = make([]StockMovementResponse, len(models))
	for i, mod := range models {
		r.Movements[i].FromModel(mod)
	}
}

type UploadImageResponse struct {
	ImageURL string `json:"image_url"`
}
