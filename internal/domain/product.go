package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest stock count products.quantity (INTEGER) holds
const MaxQuantity = math.MaxInt32

// Product represents a stocked item in the catalog
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	SKU           *string         `json:"sku" db:"sku"`
	Barcode       *string         `json:"barcode" db:"barcode"`
	Description   *string         `json:"description" db:"description"`
	CostPrice     decimal.Decimal `json:"costPrice" db:"cost_price"`
	SalePrice     decimal.Decimal `json:"salePrice" db:"sale_price"`
	Quantity      int             `json:"quantity" db:"quantity"`
	CategoryID    int64           `json:"categoryId" db:"category_id"`
	SubcategoryID *int64          `json:"subcategoryId" db:"subcategory_id"`
	Audit

	// Category and Subcategory are joined on reads for display
	Category    *Category    `json:"category,omitempty" db:"-"`
	Subcategory *Subcategory `json:"subcategory,omitempty" db:"-"`
}

// ProductInput carries the mutable fields of a product
type ProductInput struct {
	Name          string          `json:"name" validate:"required,max=255"`
	SKU           *string         `json:"sku" validate:"omitempty,max=50"`
	Barcode       *string         `json:"barcode" validate:"omitempty,max=100"`
	Description   *string         `json:"description"`
	CostPrice     decimal.Decimal `json:"costPrice" validate:"-"`
	SalePrice     decimal.Decimal `json:"salePrice" validate:"-"`
	Quantity      int             `json:"quantity" validate:"gte=0,max=2147483647"`
	CategoryID    int64           `json:"categoryId" validate:"gt=0"`
	SubcategoryID *int64          `json:"subcategoryId" validate:"omitempty,gt=0"`
}

// Normalize trims text fields and drops blank optional ones
func (in ProductInput) Normalize() ProductInput {
	in.Name = NormalizeName(in.Name)
	in.SKU = optional(in.SKU)
	in.Barcode = optional(in.Barcode)
	in.Description = optional(in.Description)
	return in
}

// Validate checks required fields, sizes and money amounts
func (in ProductInput) Validate() error {
	in = in.Normalize()
	verr := validateStruct(EntityProduct, in)
	verr = merge(EntityProduct, verr,
		checkMoney("costPrice", in.CostPrice),
		checkMoney("salePrice", in.SalePrice),
	)
	if verr != nil {
		return verr
	}
	return nil
}

// NewProduct builds a product ready to insert
func NewProduct(in ProductInput, now time.Time) *Product {
	p := &Product{}
	p.assign(in.Normalize())
	p.stampCreated(now)
	return p
}

// Apply replaces every mutable field and advances UpdatedAt
func (p *Product) Apply(in ProductInput, now time.Time) {
	p.assign(in.Normalize())
	p.Category = nil
	p.Subcategory = nil
	p.touch(now)
}

func (p *Product) assign(in ProductInput) {
	p.Name = in.Name
	p.SKU = in.SKU
	p.Barcode = in.Barcode
	p.Description = in.Description
	p.CostPrice = in.CostPrice.Round(2)
	p.SalePrice = in.SalePrice.Round(2)
	p.Quantity = in.Quantity
	p.CategoryID = in.CategoryID
	p.SubcategoryID = in.SubcategoryID
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
