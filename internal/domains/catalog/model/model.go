package model

import (
	"pscafe/shared/model"

	"github.com/shopspring/decimal"
)

const (
	CategoryTableName  = "categories"
	CategoryEntityName = "category"

	ProductTableName  = "products"
	ProductEntityName = "product"

	MovementTableName  = "stock_movements"
	MovementEntityName = "stock_movement"

	FieldID           = "id"
	FieldName         = "name"
	FieldCategoryID   = "category_id"
	FieldPrice        = "price"
	FieldIsActive     = "is_active"
	FieldCurrentStock = "current_stock"
	FieldProductID    = "product_id"
	FieldMovementType = "movement_type"
	FieldImageURL     = "image_url"
)

const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementSale       = "sale"
	MovementWaste      = "waste"
	MovementAdjustment = "adjustment"
)

type Category struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	model.Metadata
}

type Product struct {
	ID            string          `db:"id"`
	CategoryID    string          `db:"category_id"`
	Name          string          `db:"name"`
	Price         decimal.Decimal `db:"price"`
	IsActive      bool            `db:"is_active"`
	CurrentStock  int             `db:"current_stock"`
	MinStockLevel int             `db:"min_stock_level"`
	MaxStockLevel int             `db:"max_stock_level"`
	StockUnit     string          `db:"stock_unit"`
	ImageURL      string          `db:"image_url"`
	model.Metadata
}

const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
)

func (p *Product) StockStatus() string {
	switch {
	case p.CurrentStock <= 0:
		return StockStatusOutOfStock
	case p.CurrentStock <= p.MinStockLevel:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// StockMovement records every change to a product's stock level. Sales are
// negative quantities, restocks and adjustments positive.
type StockMovement struct {
	ID               string  `db:"id"`
	ProductID        string  `db:"product_id"`
	MovementType     string  `db:"movement_type"`
	Quantity         int     `db:"quantity"`
	OldStock         int     `db:"old_stock"`
	NewStock         int     `db:"new_stock"`
	Notes            string  `db:"notes"`
	SessionProductID *string `db:"session_product_id"`
	model.Metadata
}
