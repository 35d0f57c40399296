package display

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ==================== Status ====================

func TestClassifyStatus(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		want := ColorPair{Background: "#DCFCE7", Foreground: "#16A34A"}
		for _, s := range []string{"Delivered", "delivered", "DELIVERED", " delivered "} {
			assert.Equal(t, want, ClassifyStatus(s), s)
		}
	})

	t.Run("known table", func(t *testing.T) {
		assert.Equal(t, "#7C3AED", ClassifyStatus("Shipped").Foreground)
		assert.Equal(t, "#2563EB", ClassifyStatus("Processing").Foreground)
		assert.Equal(t, "#0284C7", ClassifyStatus("Confirmed").Foreground)
		assert.Equal(t, "#CA8A04", ClassifyStatus("Pending").Foreground)
		assert.Equal(t, "#DC2626", ClassifyStatus("Cancelled").Foreground)
	})

	t.Run("unknown falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultColors, ClassifyStatus("unknown-status"))
		assert.Equal(t, DefaultColors, ClassifyStatus(""))
		assert.Equal(t, ColorPair{Background: "#F3F4F6", Foreground: "#374151"}, DefaultColors)
	})
}

// ==================== Images ====================

func TestImageResolver_Resolve(t *testing.T) {
	r := NewImageResolver("", "")
	origin := DefaultOrigin

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty gives placeholder", "", DefaultPlaceholder},
		{"uploads prefix", "uploads/x.png", origin + "/uploads/x.png"},
		{"windows uploads prefix", `uploads\img\x.png`, origin + "/uploads/img/x.png"},
		{"external url unchanged", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"localhost url rewritten", "http://localhost:3000/uploads/a.png", origin + "/uploads/a.png"},
		{"localhost without scheme", "localhost:3000/uploads/a.png", origin + "/uploads/a.png"},
		{"bare filename", "a.png", origin + "/uploads/a.png"},
		{"windows absolute path", `C:\tmp\b.jpg`, origin + "/uploads/b.jpg"},
		{"trailing slash yields empty name", "foo/", origin + "/uploads/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.in))
		})
	}
}

func TestNewImageResolver_CustomOrigin(t *testing.T) {
	r := NewImageResolver("https://api.example.com/", "https://img.example.com/none.png")
	assert.Equal(t, "https://api.example.com/uploads/x.png", r.Resolve("uploads/x.png"))
	assert.Equal(t, "https://img.example.com/none.png", r.Resolve(""))
}

// ==================== Money ====================

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹12,345", FormatAmount(decimal.NewFromInt(12345)))
	assert.Equal(t, "₹0", FormatAmount(decimal.Zero))
	assert.Equal(t, "₹1,234.5", FormatAmount(decimal.RequireFromString("1234.50")))
	assert.Equal(t, "₹99.99", FormatAmount(decimal.RequireFromString("99.994")))
}

func TestPlainAmount(t *testing.T) {
	assert.Equal(t, "₹1234.5", PlainAmount(decimal.RequireFromString("1234.5")))
}
