// Package generator produces synthetic raw batches for the bronze layer.
// Each batch is a CSV document with a deliberate sprinkle of data-quality
// defects (corrupt totals, missing cells, invalid enum values, duplicate
// rows) so the downstream cleaning stage always has something to do.
package generator

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// Defect rates, as fractions of rows (or of runs, for duplicates).
const (
	corruptTotalRate    = 0.05
	nullQuantityRate    = 0.03
	nullCustomerRate    = 0.03
	invalidEnumRate     = 0.04
	duplicateAppendRate = 0.05
)

// Generator builds batches from a single random source, so a fixed seed
// reproduces the exact same output.
type Generator struct {
	rng        *rand.Rand
	productIDs map[string]string
}

// New creates a generator. A zero seed uses the current time.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng:        rand.New(rand.NewSource(seed)),
		productIDs: make(map[string]string),
	}
}

// productID returns a stable synthetic id for a product name, so the same
// product carries the same id across batches from one generator.
func (g *Generator) productID(name string) string {
	if id, ok := g.productIDs[name]; ok {
		return id
	}
	id := fmt.Sprintf("PROD-%d", 100+g.rng.Intn(900))
	g.productIDs[name] = id
	return id
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// jitter returns now minus a random offset of up to max seconds.
func (g *Generator) jitter(now time.Time, max int) string {
	return now.Add(-time.Duration(g.rng.Intn(max+1)) * time.Second).Format(time.RFC3339)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// encodeCSV renders the batch with a header row. Appends a duplicate of
// the first data row on a small fraction of runs.
func (g *Generator) encodeCSV(columns []string, rows [][]string) []byte {
	if len(rows) > 0 && g.rng.Float64() < duplicateAppendRate {
		rows = append(rows, rows[0])
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(columns)
	w.WriteAll(rows)
	return buf.Bytes()
}
