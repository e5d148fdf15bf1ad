package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists sales in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{}, &saleRecord{}, &saleItemRecord{})
	}
	return repo
}

type productRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// saleRecord maps the order aggregate to a relational table.
type saleRecord struct {
	ID          string           `gorm:"primaryKey;column:id;size:64"`
	TotalAmount decimal.Decimal  `gorm:"column:total_amount;type:numeric(18,4)"`
	CreatedAt   time.Time        `gorm:"column:created_at;index"`
	UpdatedAt   time.Time        `gorm:"column:updated_at"`
	Items       []saleItemRecord `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (saleRecord) TableName() string { return "sales" }

// saleItemRecord keeps every line item column nullable: stored documents may omit them.
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

// Save inserts or replaces a sale together with its line items.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	items := record.Items
	record.Items = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_amount": record.TotalAmount,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("sale_id = ?", record.ID).Delete(&saleItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a sale with its line items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record saleRecord
	if err := r.withItems(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all sales, oldest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []saleRecord
	if err := r.withItems(ctx).Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// SaveProduct upserts a catalog entry.
func (r *Repository) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Product{}, err
	}
	record := productRecord{ID: product.ID, Name: product.Name}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       record.Name,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// GetProduct fetches a catalog entry by identifier.
func (r *Repository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Product{}, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, ports.ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return domain.Product{ID: record.ID, Name: record.Name}, nil
}

// ListProducts returns the catalog ordered by name.
func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, domain.Product{ID: rec.ID, Name: rec.Name})
	}
	return products, nil
}

func (r *Repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres sales repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) saleRecord {
	rec := saleRecord{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		Items:       make([]saleItemRecord, 0, len(order.Products)),
	}
	for i, item := range order.Products {
		itemRec := saleItemRecord{SaleID: order.ID, Position: i, Quantity: item.Quantity}
		if item.Product != nil {
			id, name := item.Product.ID, item.Product.Name
			itemRec.ProductID = &id
			itemRec.ProductName = &name
		}
		if item.UnitPrice != nil {
			itemRec.UnitPrice = decimal.NullDecimal{Decimal: *item.UnitPrice, Valid: true}
		}
		rec.Items = append(rec.Items, itemRec)
	}
	return rec
}

func (r saleRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:          r.ID,
		TotalAmount: r.TotalAmount,
		CreatedAt:   r.CreatedAt,
		Products:    make([]domain.LineItem, 0, len(r.Items)),
	}
	for _, rec := range r.Items {
		var item domain.LineItem
		if rec.ProductID != nil || rec.ProductName != nil {
			product := &domain.Product{}
			if rec.ProductID != nil {
				product.ID = *rec.ProductID
			}
			if rec.ProductName != nil {
				product.Name = *rec.ProductName
			}
			item.Product = product
		}
		if rec.Quantity != nil {
			item.Quantity = domain.Int64(*rec.Quantity)
		}
		if rec.UnitPrice.Valid {
			price := rec.UnitPrice.Decimal
			item.UnitPrice = &price
		}
		order.Products = append(order.Products, item)
	}
	return order
}
