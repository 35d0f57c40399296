package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// IconKind tells the UI how to render a category icon
type IconKind string

const (
	IconKindSymbol IconKind = "icon"
	IconKindText   IconKind = "text"
	IconKindEmoji  IconKind = "emoji"
)

// IconView is the resolved rendering of a category icon
type IconView struct {
	Kind  IconKind `json:"kind"`
	Value string   `json:"value"`
	Color string   `json:"color,omitempty"`
}

// FallbackIcon is shown when a category has no icon at all
const FallbackIcon = "📦"

// iconTable maps stored icon keys to the icon set used by the dashboard
var iconTable = map[string]string{
	"nutrition":          "LocalFlorist",
	"leaf":               "LocalFlorist",
	"nutrition-outline":  "LocalFlorist",
	"water":              "WaterDrop",
	"water-outline":      "WaterDrop",
	"fast-food":          "Fastfood",
	"fast-food-outline":  "Fastfood",
	"restaurant":         "Restaurant",
	"bag-handle":         "ShoppingBag",
	"bag-handle-outline": "ShoppingBag",
	"grocery":            "ShoppingBag",
	"basket":             "ShoppingBasket",
	"category":           "Category",
	"inventory":          "Inventory2",
	"dining":             "LocalDining",
	"liquor":             "Liquor",
	"icecream":           "Icecream",
	"kitchen":            "Kitchen",
	"spa":                "Spa",
	"clothes":            "Checkroom",
	"electronics":        "Devices",
	"books":              "MenuBook",
}

// IconKeys returns the icon keys offered by the category editor, sorted
func IconKeys() []string {
	keys := make([]string, 0, len(iconTable))
	for k := range iconTable {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// LookupIcon returns the icon symbol for a key, trying the exact key first and then its lower-case form
func LookupIcon(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	if sym, ok := iconTable[key]; ok {
		return sym, true
	}
	sym, ok := iconTable[strings.ToLower(key)]
	return sym, ok
}

// ResolveIcon decides how a category icon is rendered
func ResolveIcon(c Category) IconView {
	key := c.Icon
	if key == "" {
		key = c.IconName
	}
	if sym, ok := LookupIcon(key); ok {
		return IconView{Kind: IconKindSymbol, Value: sym, Color: c.IconColor}
	}

	if c.IconFamily != "" && c.IconName != "" {
		return IconView{Kind: IconKindText, Value: strings.ToUpper(prefix(c.IconName, 2))}
	}

	if c.Icon == "" {
		return IconView{Kind: IconKindEmoji, Value: FallbackIcon}
	}
	if utf8.RuneCountInString(c.Icon) > 2 {
		return IconView{Kind: IconKindText, Value: strings.ToUpper(prefix(c.Icon, 3))}
	}
	return IconView{Kind: IconKindEmoji, Value: c.Icon}
}

func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
