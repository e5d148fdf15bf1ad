package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the sales store. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&saleRecord{},
		&saleItemRecord{},
	)
}

// Product schema mirrors the sales Postgres adapter.
type productRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Sale schema mirrors the sales Postgres adapter.
type saleRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,4)"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (saleRecord) TableName() string { return "sales" }

// Line item schema; every business column is nullable.
type saleItemRecord struct {
	ID          uint                `gorm:"primaryKey;column:id"`
	SaleID      string              `gorm:"column:sale_id;size:64;index:idx_sale_items_sale_position"`
	Position    int                 `gorm:"column:position;index:idx_sale_items_sale_position"`
	ProductID   *string             `gorm:"column:product_id;size:64"`
	ProductName *string             `gorm:"column:product_name"`
	Quantity    *int64              `gorm:"column:quantity"`
	UnitPrice   decimal.NullDecimal `gorm:"column:unit_price;type:numeric(18,4)"`
}

func (saleItemRecord) TableName() string { return "sale_items" }
