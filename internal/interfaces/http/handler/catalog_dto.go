package handler

import (
	"github.com/shopspring/decimal"

	"github.com/grocery/admin/internal/domain/catalog"
	"github.com/grocery/admin/internal/domain/listing"
)

// ListQuery is the filter bar of every list screen
type ListQuery struct {
	Search   string `form:"search" binding:"max=200"`
	Category string `form:"category"`
	Status   string `form:"status"`
	Date     string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Refresh  bool   `form:"refresh"`
}

// Criteria returns the list filter selectors
func (q ListQuery) Criteria() listing.Criteria {
	return listing.Criteria{
		Search:   q.Search,
		Category: q.Category,
		Status:   q.Status,
		Date:     q.Date,
	}
}

// VariantRequest is one unit configuration of a product
type VariantRequest struct {
	Unit  string          `json:"unit" binding:"required,max=50"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" binding:"gte=0"`
}

// ProductRequest represents the create and edit product form
type ProductRequest struct {
	Name       string           `json:"name" binding:"required,max=200"`
	SKU        string           `json:"sku" binding:"max=64"`
	Image      string           `json:"image" binding:"max=500"`
	Images     []string         `json:"images" binding:"max=20,dive,max=500"`
	CategoryID string           `json:"categoryId" binding:"omitempty,len=24,hexadecimal"`
	IsActive   *bool            `json:"isActive"`
	Variants   []VariantRequest `json:"variants" binding:"dive"`
}

// Draft converts the form to the payload sent to the remote store
func (r ProductRequest) Draft() catalog.ProductDraft {
	variants := make([]catalog.Variant, 0, len(r.Variants))
	for _, v := range r.Variants {
		variants = append(variants, catalog.Variant{Unit: v.Unit, Price: v.Price, Stock: v.Stock})
	}
	return catalog.ProductDraft{
		Name:       r.Name,
		SKU:        r.SKU,
		Image:      r.Image,
		Images:     r.Images,
		CategoryID: r.CategoryID,
		IsActive:   r.IsActive,
		Variants:   variants,
	}
}

// CategoryRequest represents the create and edit category form
type CategoryRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Icon          string   `json:"icon" binding:"max=50"`
	IconName      string   `json:"iconName" binding:"max=50"`
	IconBg        string   `json:"iconBg" binding:"omitempty,hexcolor"`
	IconColor     string   `json:"iconColor" binding:"omitempty,hexcolor"`
	IsActive      *bool    `json:"isActive"`
	SubCategories []string `json:"subCategories" binding:"max=50,dive,max=100"`
}

// Draft converts the form to the payload sent to the remote store
func (r CategoryRequest) Draft() catalog.CategoryDraft {
	subs := make([]catalog.SubCategory, 0, len(r.SubCategories))
	for _, name := range r.SubCategories {
		subs = append(subs, catalog.SubCategory{Name: name})
	}
	return catalog.CategoryDraft{
		Name:          r.Name,
		Icon:          r.Icon,
		IconName:      r.IconName,
		IconBg:        r.IconBg,
		IconColor:     r.IconColor,
		IsActive:      r.IsActive,
		SubCategories: subs,
	}
}

// ActiveRequest sets the active flag; an absent flag toggles it
type ActiveRequest struct {
	IsActive *bool `json:"isActive"`
}
