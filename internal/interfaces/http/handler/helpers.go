package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
)

// parseTimeQuery parses an optional RFC3339 query parameter
func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC3339, got %q", name, raw)
	}
	return &t, nil
}

// periodBounds reads the shared period query parameters (period, from, to)
func periodBounds(c *gin.Context) (valueobject.PeriodShortcut, *time.Time, *time.Time, error) {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return "", nil, nil, err
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return "", nil, nil, err
	}
	return valueobject.PeriodShortcut(c.Query("period")), from, to, nil
}

// parseIntQuery parses an optional integer query parameter with a default
func parseIntQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}
