package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grocery/admin/internal/domain/shared"
)

// LowStockThreshold is the variant stock at or below which a variant counts as low stock
const LowStockThreshold = 10

// Product statuses used by list filters and the active toggle
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Variant is a purchasable unit configuration of a product
type Variant struct {
	Unit  string          `json:"unit"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// CategoryRef is the denormalized category embedded in a product by the remote store
type CategoryRef struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Product is a read-through copy of a product owned by the remote data store
type Product struct {
	ID       string       `json:"_id"`
	Name     string       `json:"name"`
	SKU      string       `json:"sku,omitempty"`
	Image    string       `json:"image,omitempty"`
	Images   []string     `json:"images,omitempty"`
	Category *CategoryRef `json:"categoryId,omitempty"`
	// IsActive is a pointer because the remote store omits it for legacy records.
	// Lists and toggles treat those as inactive; the dashboard counts them as active.
	IsActive *bool     `json:"isActive,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

// Active reports whether the product is switched on; an absent flag means off
func (p Product) Active() bool {
	return p.IsActive != nil && *p.IsActive
}

// Disabled reports whether the product was explicitly switched off
func (p Product) Disabled() bool {
	return p.IsActive != nil && !*p.IsActive
}

// CategoryName returns the embedded category name or "" when the product has none
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// TotalStock sums stock over all variants. Negative upstream values count as zero.
func (p Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		if v.Stock > 0 {
			total += v.Stock
		}
	}
	return total
}

// InStock reports whether any variant has stock
func (p Product) InStock() bool {
	return p.TotalStock() > 0
}

// StockLabel returns the binary stock label shown in the product list
func (p Product) StockLabel() string {
	if total := p.TotalStock(); total > 0 {
		return fmt.Sprintf("In Stock (%d)", total)
	}
	return "Out of Stock"
}

// PrimaryVariant returns the first variant, which drives the list price column
func (p Product) PrimaryVariant() (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}

// LowStockVariants counts the variants at or below LowStockThreshold
func (p Product) LowStockVariants() int {
	n := 0
	for _, v := range p.Variants {
		if v.Stock <= LowStockThreshold {
			n++
		}
	}
	return n
}

// PrimaryImage returns the image path used for thumbnails
func (p Product) PrimaryImage() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// SearchFields implements listing.Filterable
func (p Product) SearchFields() []string {
	return []string{p.Name, p.SKU}
}

// StatusKey implements listing.Filterable
func (p Product) StatusKey() string {
	if p.Active() {
		return StatusActive
	}
	return StatusInactive
}

// CreatedOn implements listing.Filterable. The remote store does not expose product timestamps.
func (p Product) CreatedOn() (time.Time, bool) { return time.Time{}, false }

// ProductDraft is the payload sent to the remote store when creating or editing a product
type ProductDraft struct {
	Name       string    `json:"name"`
	SKU        string    `json:"sku,omitempty"`
	Image      string    `json:"image,omitempty"`
	Images     []string  `json:"images,omitempty"`
	CategoryID string    `json:"categoryId,omitempty"`
	IsActive   *bool     `json:"isActive,omitempty"`
	Variants   []Variant `json:"variants"`
}

// Normalize trims the draft and checks the variant invariants
func (d *ProductDraft) Normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	d.SKU = strings.TrimSpace(d.SKU)
	if d.Name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	for i := range d.Variants {
		v := &d.Variants[i]
		v.Unit = strings.TrimSpace(v.Unit)
		if v.Unit == "" {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("variant %d: unit is required", i+1))
		}
		if v.Stock < 0 {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("variant %d: stock cannot be negative", i+1))
		}
		if v.Price.IsNegative() {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("variant %d: price cannot be negative", i+1))
		}
	}
	return nil
}

// LowStockCount counts low-stock variants across a product collection
func LowStockCount(products []Product) int {
	n := 0
	for _, p := range products {
		n += p.LowStockVariants()
	}
	return n
}

// ActiveCount counts the products the dashboard reports as active: every product
// not explicitly disabled
func ActiveCount(products []Product) int {
	n := 0
	for _, p := range products {
		if !p.Disabled() {
			n++
		}
	}
	return n
}

