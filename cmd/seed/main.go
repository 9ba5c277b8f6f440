package main

import (
	"log"
	"pscafe/config"
	"pscafe/infras/postgres"
	catalogModel "pscafe/internal/domains/catalog/model"
	tableModel "pscafe/internal/domains/table/model"
	"pscafe/shared/model"
	"pscafe/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const seedUser = "seed"

type seedProduct struct {
	name     string
	price    string
	stock    int
	minStock int
	maxStock int
}

var seedCategories = map[string][]seedProduct{
	"İçecekler": {
		{name: "Kola", price: "8.00", stock: 48, minStock: 12, maxStock: 96},
		{name: "Fanta", price: "8.00", stock: 36, minStock: 12, maxStock: 96},
		{name: "Su", price: "3.00", stock: 60, minStock: 24, maxStock: 120},
		{name: "Çay", price: "5.00", stock: 100, minStock: 20, maxStock: 200},
	},
	"Atıştırmalıklar": {
		{name: "Cips", price: "12.00", stock: 30, minStock: 10, maxStock: 60},
		{name: "Çikolata", price: "10.00", stock: 40, minStock: 10, maxStock: 80},
	},
	"Ana Yemek": {
		{name: "Tost", price: "25.00", stock: 20, minStock: 5, maxStock: 40},
		{name: "Hamburger", price: "45.00", stock: 15, minStock: 5, maxStock: 30},
	},
}

var seedTables = []tableModel.Table{
	{Name: "PS-1", PlaystationIP: "192.168.1.101", HourlyRate: decimal.NewFromInt(100), OpeningFee: decimal.NewFromInt(20)},
	{Name: "PS-2", PlaystationIP: "192.168.1.102", HourlyRate: decimal.NewFromInt(100), OpeningFee: decimal.NewFromInt(20)},
	{Name: "PS-3", PlaystationIP: "192.168.1.103", HourlyRate: decimal.NewFromInt(120), OpeningFee: decimal.NewFromInt(20)},
	{Name: "PS-4 VIP", PlaystationIP: "192.168.1.104", HourlyRate: decimal.NewFromInt(150), OpeningFee: decimal.NewFromInt(30)},
}

func main() {
	cfg := config.Get()
	db := postgres.CreatePostgresWriteConn(*cfg)

	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("closing connection: %v", err)
		}
	}()

	if err := seedTablesData(db); err != nil {
		log.Fatal(err)
	}

	if err := seedCatalog(db); err != nil {
		log.Fatal(err)
	}

	log.Println("Seed completed")
}

func seedTablesData(db *sqlx.DB) error {
	query := `INSERT INTO tables (id, name, playstation_ip, hourly_rate, opening_fee, status, created_at, modified_at, created_by, modified_by)
		VALUES (:id, :name, :playstation_ip, :hourly_rate, :opening_fee, :status, :created_at, :modified_at, :created_by, :modified_by)
		ON CONFLICT (name) DO NOTHING`

	for _, table := range seedTables {
		table.ID = uuid.NewString()
		table.Status = tableModel.StatusAvailable
		table.Metadata = model.NewMetadata(seedUser, timezone.Now())

		if _, err := db.NamedExec(query, table); err != nil {
			return err
		}

		log.Printf("Seeded table %s", table.Name)
	}

	return nil
}

func seedCatalog(db *sqlx.DB) error {
	categoryQuery := `INSERT INTO categories (id, name, created_at, modified_at, created_by, modified_by)
		VALUES (:id, :name, :created_at, :modified_at, :created_by, :modified_by)
		ON CONFLICT (name) DO NOTHING`

	productQuery := `INSERT INTO products (id, category_id, name, price, is_active, current_stock, min_stock_level, max_stock_level, stock_unit, image_url, created_at, modified_at, created_by, modified_by)
		VALUES (:id, :category_id, :name, :price, :is_active, :current_stock, :min_stock_level, :max_stock_level, :stock_unit, :image_url, :created_at, :modified_at, :created_by, :modified_by)
		ON CONFLICT (name) DO NOTHING`

	for categoryName, products := range seedCategories {
		category := catalogModel.Category{
			ID:       uuid.NewString(),
			Name:     categoryName,
			Metadata: model.NewMetadata(seedUser, timezone.Now()),
		}

		if _, err := db.NamedExec(categoryQuery, category); err != nil {
			return err
		}

		var categoryID string
		if err := db.Get(&categoryID, "SELECT id FROM categories WHERE name = $1", categoryName); err != nil {
			return err
		}

		for _, item := range products {
			price, err := decimal.NewFromString(item.price)
			if err != nil {
				return err
			}

			product := catalogModel.Product{
				ID:            uuid.NewString(),
				CategoryID:    categoryID,
				Name:          item.name,
				Price:         price,
				IsActive:      true,
				CurrentStock:  item.stock,
				MinStockLevel: item.minStock,
				MaxStockLevel: item.maxStock,
				StockUnit:     "adet",
				Metadata:      model.NewMetadata(seedUser, timezone.Now()),
			}

			if _, err := db.NamedExec(productQuery, product); err != nil {
				return err
			}
		}

		log.Printf("Seeded category %s with %d products", categoryName, len(products))
	}

	return nil
}
