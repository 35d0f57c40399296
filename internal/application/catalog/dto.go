package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/grocery/admin/internal/domain/catalog"
	"github.com/grocery/admin/internal/domain/display"
)

// ProductRow is one line of the product table
type ProductRow struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Image            string          `json:"image"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	Price            decimal.Decimal `json:"price"`
	PriceLabel       string          `json:"priceLabel"`
	VariantCount     int             `json:"variantCount"`
	TotalStock       int             `json:"totalStock"`
	InStock          bool            `json:"inStock"`
	StockLabel       string          `json:"stockLabel"`
	LowStockVariants int             `json:"lowStockVariants"`
	Active           bool            `json:"active"`
	Status           string          `json:"status"`
}

// NewProductRow derives the table row of a product
func NewProductRow(p catalog.Product, images display.ImageResolver) ProductRow {
	row := ProductRow{
		ID:               p.ID,
		Name:             p.Name,
		SKU:              p.SKU,
		Image:            images.Resolve(p.PrimaryImage()),
		Category:         p.CategoryName(),
		VariantCount:     len(p.Variants),
		TotalStock:       p.TotalStock(),
		InStock:          p.InStock(),
		StockLabel:       p.StockLabel(),
		LowStockVariants: p.LowStockVariants(),
		Active:           p.Active(),
		Status:           p.StatusKey(),
		Price:            decimal.Zero,
	}
	if v, ok := p.PrimaryVariant(); ok {
		row.Unit = v.Unit
		row.Price = v.Price
	}
	row.PriceLabel = display.PlainAmount(row.Price)
	return row
}

// ProductDetail is a product with its image paths resolved for display
type ProductDetail struct {
	catalog.Product
	ImageURLs []string   `json:"imageUrls"`
	Row       ProductRow `json:"row"`
}

// NewProductDetail resolves every image of the product
func NewProductDetail(p catalog.Product, images display.ImageResolver) ProductDetail {
	paths := p.Images
	if len(paths) == 0 && p.Image != "" {
		paths = []string{p.Image}
	}
	urls := make([]string, 0, len(paths))
	for _, path := range paths {
		urls = append(urls, images.Resolve(path))
	}
	return ProductDetail{Product: p, ImageURLs: urls, Row: NewProductRow(p, images)}
}

// CategoryRow is one line of the category table
type CategoryRow struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Icon          catalog.IconView `json:"icon"`
	IconTitle     string           `json:"iconTitle"`
	TileColor     string           `json:"tileColor"`
	SubCategories []string         `json:"subCategories"`
	ProductsCount int              `json:"productsCount"`
	Active        bool             `json:"active"`
	Status        string           `json:"status"`
}

// NewCategoryRow derives the table row of a category
func NewCategoryRow(c catalog.Category) CategoryRow {
	subs := make([]string, 0, len(c.SubCategories))
	for _, s := range c.SubCategories {
		subs = append(subs, s.Name)
	}
	return CategoryRow{
		ID:            c.ID,
		Name:          c.Name,
		Icon:          catalog.ResolveIcon(c),
		IconTitle:     c.IconTitle(),
		TileColor:     c.Tile(),
		SubCategories: subs,
		ProductsCount: c.ProductsCount,
		Active:        c.Active(),
		Status:        c.StatusKey(),
	}
}

// CategoryDetail is a category with its resolved row
type CategoryDetail struct {
	catalog.Category
	Row CategoryRow `json:"row"`
}
