// Package cleaning implements the per-domain validation rule sets that turn
// concatenated raw rows into deduplicated, validity-annotated records.
// Rules accumulate tags per row instead of short-circuiting; invalid rows
// are flagged, never dropped.
package cleaning

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/user/medallion/internal/domain"
)

// Accepted timestamp layouts for raw cells, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// cell returns the trimmed raw value, or nil for a missing or empty cell.
func cell(row map[string]string, key string) *string {
	v, ok := row[key]
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// parseTime coerces a raw cell into a UTC timestamp. Unparsable values
// become nil and are caught by the null check, mirroring the "coerce then
// flag" treatment of bad timestamps upstream of validation.
func parseTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

// parseInt coerces a raw cell into an integer, accepting integral floats
// ("3.0"). Unparsable values become nil.
func parseInt(s *string) *int64 {
	if s == nil {
		return nil
	}
	if n, err := strconv.ParseInt(*s, 10, 64); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(*s, 64); err == nil && f == math.Trunc(f) {
		n := int64(f)
		return &n
	}
	return nil
}

// parseDecimal coerces a raw cell into a decimal. Unparsable values become nil.
func parseDecimal(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}

// finalize stamps the engine-added trailer on a record.
func finalize(v *domain.Validation, tags []domain.Tag, now time.Time) {
	if tags == nil {
		tags = []domain.Tag{}
	}
	v.IsValid = len(tags) == 0
	v.ValidationErrors = tags
	v.ProcessedAt = now
}
