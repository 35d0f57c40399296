package catalog

import (
	"strings"
	"time"

	"github.com/grocery/admin/internal/domain/shared"
)

// Default icon colors applied by the category editor
const (
	DefaultIconName  = "category"
	DefaultIconBg    = "#F3F4F6"
	DefaultIconColor = "#111827"
	// FallbackIconBg is the tile background used by the category list when none is stored
	FallbackIconBg = "#E5E7EB"
)

// SubCategory is a named child of a category
type SubCategory struct {
	Name string `json:"name"`
}

// Category is a read-through copy of a category owned by the remote data store
type Category struct {
	ID            string        `json:"_id"`
	Name          string        `json:"name"`
	Icon          string        `json:"icon,omitempty"`
	IconName      string        `json:"iconName,omitempty"`
	IconFamily    string        `json:"iconFamily,omitempty"`
	IconBg        string        `json:"iconBg,omitempty"`
	IconColor     string        `json:"iconColor,omitempty"`
	IsActive      *bool         `json:"isActive,omitempty"`
	SubCategories []SubCategory `json:"subCategories,omitempty"`
	ProductsCount int           `json:"productsCount,omitempty"`
}

// Active reports whether the category is switched on; an absent flag means off
func (c Category) Active() bool {
	return c.IsActive != nil && *c.IsActive
}

// SearchFields implements listing.Filterable
func (c Category) SearchFields() []string {
	return []string{c.Name}
}

// StatusKey implements listing.Filterable
func (c Category) StatusKey() string {
	if c.Active() {
		return StatusActive
	}
	return StatusInactive
}

// CategoryName implements listing.Filterable; categories are not nested
func (c Category) CategoryName() string { return "" }

// CreatedOn implements listing.Filterable
func (c Category) CreatedOn() (time.Time, bool) { return time.Time{}, false }

// Tile returns the background color of the icon tile
func (c Category) Tile() string {
	if c.IconBg != "" {
		return c.IconBg
	}
	return FallbackIconBg
}

// IconTitle is the hover title of the icon tile
func (c Category) IconTitle() string {
	if c.IconName != "" {
		return c.IconFamily + ": " + c.IconName
	}
	return c.Icon
}

// CategoryDraft is the payload sent to the remote store when creating or editing a category
type CategoryDraft struct {
	Name          string        `json:"name"`
	Icon          string        `json:"icon"`
	IconName      string        `json:"iconName"`
	IconBg        string        `json:"iconBg"`
	IconColor     string        `json:"iconColor"`
	IsActive      *bool         `json:"isActive,omitempty"`
	SubCategories []SubCategory `json:"subCategories"`
}

// Normalize trims the draft, fills editor defaults and drops blank sub-categories
func (d *CategoryDraft) Normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Category name is required")
	}
	if d.IconName == "" {
		d.IconName = d.Icon
	}
	if d.IconName == "" {
		d.IconName = DefaultIconName
	}
	d.Icon = d.IconName
	if d.IconBg == "" {
		d.IconBg = DefaultIconBg
	}
	if d.IconColor == "" {
		d.IconColor = DefaultIconColor
	}
	subs := make([]SubCategory, 0, len(d.SubCategories))
	for _, s := range d.SubCategories {
		if name := strings.TrimSpace(s.Name); name != "" {
			subs = append(subs, SubCategory{Name: name})
		}
	}
	d.SubCategories = subs
	return nil
}
