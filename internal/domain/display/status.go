// Package display holds the pure presentation rules shared by every list screen.
package display

import "strings"

// ColorPair is the badge colors of a status
type ColorPair struct {
	Background string `json:"bg"`
	Foreground string `json:"text"`
}

// DefaultColors is used for unknown or empty statuses
var DefaultColors = ColorPair{Background: "#F3F4F6", Foreground: "#374151"}

var statusColors = map[string]ColorPair{
	"delivered":  {Background: "#DCFCE7", Foreground: "#16A34A"},
	"shipped":    {Background: "#EDE9FE", Foreground: "#7C3AED"},
	"processing": {Background: "#DBEAFE", Foreground: "#2563EB"},
	"confirmed":  {Background: "#E0F2FE", Foreground: "#0284C7"},
	"pending":    {Background: "#FEF9C3", Foreground: "#CA8A04"},
	"cancelled":  {Background: "#FEE2E2", Foreground: "#DC2626"},
}

// ClassifyStatus returns the badge colors for a status. It never fails.
func ClassifyStatus(status string) ColorPair {
	if c, ok := statusColors[strings.ToLower(strings.TrimSpace(status))]; ok {
		return c
	}
	return DefaultColors
}
