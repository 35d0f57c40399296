package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocery/admin/internal/interfaces/http/dto"
)

// newDraftEcho accepts a product draft body and echoes its length
func newDraftEcho(limit int64) *gin.Engine {
	engine := gin.New()
	engine.Use(BodyLimit(limit))
	engine.POST("/products", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.String(http.StatusRequestEntityTooLarge, "truncated")
				return
			}
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"read": len(data)})
	})
	engine.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestBodyLimit(t *testing.T) {
	draft := `{"name":"Alphonso Mango","variants":[{"unit":"1kg","price":"250","stock":12}]}`

	tests := []struct {
		name     string
		limit    int64
		body     string
		unknown  bool
		wantCode int
	}{
		{"draft within limit", 1024, draft, false, http.StatusOK},
		{"declared length over limit", 32, draft, false, http.StatusRequestEntityTooLarge},
		{"disabled", 0, strings.Repeat("x", 8192), false, http.StatusOK},
		{"chunked body over limit", 32, draft, true, http.StatusRequestEntityTooLarge},
		{"chunked body within limit", 1024, draft, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tt.body))
			if tt.unknown {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			newDraftEcho(tt.limit).ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestBodyLimit_RejectionEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(strings.Repeat("x", 200)))
	req.Header.Set(RequestIDHeader, "req-413")
	w := httptest.NewRecorder()
	newDraftEcho(100).ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
	assert.Equal(t, "req-413", resp.Error.RequestID)
}

func TestBodyLimit_IgnoresReads(t *testing.T) {
	w := httptest.NewRecorder()
	newDraftEcho(1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
