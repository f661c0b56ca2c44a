// Package aggregate computes the gold-layer rollups. Every builder takes
// the full cleaned dataset for one domain, keeps only valid records, and
// produces a complete snapshot; nothing here is incremental. Rows whose
// grouping key is missing a categorical value are excluded from that
// grouped table.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const keySep = "\x1f"

func groupKey(parts ...string) string {
	return strings.Join(parts, keySep)
}

func splitKey(key string) []string {
	return strings.Split(key, keySep)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// dateKey is the calendar day of a timestamp in UTC, the fixed reference
// zone for all rollups.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func meanRound2(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}
