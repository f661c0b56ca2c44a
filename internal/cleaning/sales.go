package cleaning

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/user/medallion/internal/domain"
)

// totalTolerance is the maximum accepted drift between a stored
// total_amount and the recomputed quantity x unit_price, in currency units.
var totalTolerance = decimal.New(1, -2) // 0.01

// SalesResult is the outcome of cleaning one run's concatenated sales input.
type SalesResult struct {
	Records           []domain.SalesRecord
	DuplicatesRemoved int
	Repaired          int
	Valid             int
}

// CleanSales deduplicates on sale_id (first occurrence wins), flags missing
// required fields, and repairs total_amount when it drifts from
// quantity x unit_price by more than the tolerance. The repair is silent:
// it is a correction, not a rejection.
func CleanSales(rows []map[string]string, now time.Time) SalesResult {
	var result SalesResult

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		rec := parseSalesRow(row)
		// Rows without a primary key cannot be duplicates of each other;
		// each is kept and flagged by the null check below.
		if rec.SaleID != nil {
			if _, dup := seen[*rec.SaleID]; dup {
				result.DuplicatesRemoved++
				continue
			}
			seen[*rec.SaleID] = struct{}{}
		}
		result.Records = append(result.Records, rec)
	}

	for i := range result.Records {
		rec := &result.Records[i]

		var tags []domain.Tag
		for _, field := range [...]struct {
			name    string
			present bool
		}{
			{"sale_id", rec.SaleID != nil},
			{"timestamp", rec.Timestamp != nil},
			{"customer_id", rec.CustomerID != nil},
			{"product_id", rec.ProductID != nil},
			{"quantity", rec.Quantity != nil},
			{"unit_price", rec.UnitPrice != nil},
			{"total_amount", rec.TotalAmount != nil},
		} {
			if !field.present {
				tags = append(tags, domain.NullTag(field.name))
			}
		}

		if rec.Quantity != nil && rec.UnitPrice != nil && rec.TotalAmount != nil {
			expected := decimal.NewFromInt(*rec.Quantity).Mul(*rec.UnitPrice).Round(2)
			if rec.TotalAmount.Sub(expected).Abs().GreaterThan(totalTolerance) {
				*rec.TotalAmount = expected
				result.Repaired++
			}
		}

		finalize(&rec.Validation, tags, now)
		if rec.IsValid {
			result.Valid++
		}
	}

	return result
}

func parseSalesRow(row map[string]string) domain.SalesRecord {
	return domain.SalesRecord{
		SaleID:        cell(row, "sale_id"),
		Timestamp:     parseTime(cell(row, "timestamp")),
		CustomerID:    cell(row, "customer_id"),
		ProductID:     cell(row, "product_id"),
		ProductName:   cell(row, "product_name"),
		Category:      cell(row, "category"),
		Quantity:      parseInt(cell(row, "quantity")),
		UnitPrice:     parseDecimal(cell(row, "unit_price")),
		TotalAmount:   parseDecimal(cell(row, "total_amount")),
		PaymentMethod: cell(row, "payment_method"),
		Status:        cell(row, "status"),
	}
}
