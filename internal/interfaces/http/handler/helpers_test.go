package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParseTimeQuery(t *testing.T) {
	t.Run("absent returns nil", func(t *testing.T) {
		c := newQueryContext(t, "")
		got, err := parseTimeQuery(c, "from")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("parses RFC3339", func(t *testing.T) {
		c := newQueryContext(t, "from=2026-08-01T00:00:00Z")
		got, err := parseTimeQuery(c, "from")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("rejects other formats", func(t *testing.T) {
		c := newQueryContext(t, "from=2026-08-01")
		_, err := parseTimeQuery(c, "from")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "RFC3339")
	})
}

func TestPeriodBounds(t *testing.T) {
	t.Run("reads shortcut and custom bounds", func(t *testing.T) {
		c := newQueryContext(t, "period=custom&from=2026-08-01T00:00:00Z&to=2026-08-31T00:00:00Z")
		shortcut, from, to, err := periodBounds(c)
		require.NoError(t, err)
		assert.Equal(t, valueobject.PeriodShortcut("custom"), shortcut)
		require.NotNil(t, from)
		require.NotNil(t, to)
		assert.True(t, to.After(*from))
	})

	t.Run("everything optional", func(t *testing.T) {
		c := newQueryContext(t, "")
		shortcut, from, to, err := periodBounds(c)
		require.NoError(t, err)
		assert.Empty(t, string(shortcut))
		assert.Nil(t, from)
		assert.Nil(t, to)
	})

	t.Run("propagates parse errors", func(t *testing.T) {
		c := newQueryContext(t, "to=yesterday")
		_, _, _, err := periodBounds(c)
		assert.Error(t, err)
	})
}

func TestParseIntQuery(t *testing.T) {
	t.Run("absent returns fallback", func(t *testing.T) {
		c := newQueryContext(t, "")
		got, err := parseIntQuery(c, "installments", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("parses value", func(t *testing.T) {
		c := newQueryContext(t, "installments=6")
		got, err := parseIntQuery(c, "installments", 1)
		require.NoError(t, err)
		assert.Equal(t, 6, got)
	})

	t.Run("rejects non-integer", func(t *testing.T) {
		c := newQueryContext(t, "installments=six")
		_, err := parseIntQuery(c, "installments", 1)
		assert.Error(t, err)
	})
}
