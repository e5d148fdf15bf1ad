package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnnamedProduct labels line items whose product reference or name is missing.
const UnnamedProduct = "Sin nombre"

var (
	ErrNoLineItems       = errors.New("sale requires at least one line item")
	ErrNegativeQuantity  = errors.New("quantity must not be negative")
	ErrNegativeUnitPrice = errors.New("unit price must not be negative")
)

// Product is the catalog entry referenced by a line item.
type Product struct {
	ID   string
	Name string
}

// LineItem is one product/quantity/price entry of an order. Every field is
// optional because stored documents may omit them; use the accessors to read
// the value with its fallback applied.
type LineItem struct {
	Product   *Product
	Quantity  *int64
	UnitPrice *decimal.Decimal
}

// Order is a sales transaction as returned by the data source.
type Order struct {
	ID          string
	TotalAmount decimal.Decimal
	Products    []LineItem
	CreatedAt   time.Time
}

// ProductName returns the product name as stored, or UnnamedProduct when it
// is absent or blank.
func (li LineItem) ProductName() string {
	if li.Product == nil || strings.TrimSpace(li.Product.Name) == "" {
		return UnnamedProduct
	}
	return li.Product.Name
}

// QuantityOrZero returns the quantity, treating absent and negative values as zero.
func (li LineItem) QuantityOrZero() int64 {
	if li.Quantity == nil || *li.Quantity < 0 {
		return 0
	}
	return *li.Quantity
}

// UnitPriceOrZero returns the unit price, treating absent and negative values as zero.
func (li LineItem) UnitPriceOrZero() decimal.Decimal {
	if li.UnitPrice == nil || li.UnitPrice.IsNegative() {
		return decimal.Zero
	}
	return *li.UnitPrice
}

// Subtotal is quantity × unit price with fallbacks applied.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPriceOrZero().Mul(decimal.NewFromInt(li.QuantityOrZero()))
}

// Validate rejects explicitly negative values on new line items.
func (li LineItem) Validate() error {
	if li.Quantity != nil && *li.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if li.UnitPrice != nil && li.UnitPrice.IsNegative() {
		return ErrNegativeUnitPrice
	}
	return nil
}

// NewOrder validates the line items and derives the order total from them.
func NewOrder(id string, items []LineItem, createdAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}
	total := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(item.Subtotal())
	}
	return &Order{
		ID:          id,
		TotalAmount: total,
		Products:    append([]LineItem(nil), items...),
		CreatedAt:   createdAt,
	}, nil
}

// Int64 returns a pointer to v, for building optional quantities.
func Int64(v int64) *int64 { return &v }

// Price returns a pointer to a decimal built from a float, for building optional prices.
func Price(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
