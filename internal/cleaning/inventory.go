package cleaning

import (
	"time"

	"github.com/user/medallion/internal/domain"
)

var validMovementTypes = map[string]struct{}{
	domain.MovementInbound:    {},
	domain.MovementOutbound:   {},
	domain.MovementAdjustment: {},
}

// InventoryResult is the outcome of cleaning one run's concatenated
// inventory-movement input.
type InventoryResult struct {
	Records           []domain.MovementRecord
	DuplicatesRemoved int
	Valid             int
}

// CleanInventory deduplicates on movement_id (first occurrence wins), flags
// missing required fields, unrecognised movement types, and non-positive
// quantities.
func CleanInventory(rows []map[string]string, now time.Time) InventoryResult {
	var result InventoryResult

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		rec := parseMovementRow(row)
		if rec.MovementID != nil {
			if _, dup := seen[*rec.MovementID]; dup {
				result.DuplicatesRemoved++
				continue
			}
			seen[*rec.MovementID] = struct{}{}
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
			{"movement_id", rec.MovementID != nil},
			{"timestamp", rec.Timestamp != nil},
			{"product_id", rec.ProductID != nil},
			{"warehouse_id", rec.WarehouseID != nil},
			{"movement_type", rec.MovementType != nil},
			{"quantity", rec.Quantity != nil},
		} {
			if !field.present {
				tags = append(tags, domain.NullTag(field.name))
			}
		}

		if rec.MovementType != nil {
			if _, ok := validMovementTypes[*rec.MovementType]; !ok {
				tags = append(tags, domain.TagInvalidMovementType)
			}
		}
		if rec.Quantity != nil && *rec.Quantity <= 0 {
			tags = append(tags, domain.TagNonPositiveQuantity)
		}

		finalize(&rec.Validation, tags, now)
		if rec.IsValid {
			result.Valid++
		}
	}

	return result
}

func parseMovementRow(row map[string]string) domain.MovementRecord {
	return domain.MovementRecord{
		MovementID:   cell(row, "movement_id"),
		Timestamp:    parseTime(cell(row, "timestamp")),
		ProductID:    cell(row, "product_id"),
		ProductName:  cell(row, "product_name"),
		WarehouseID:  cell(row, "warehouse_id"),
		MovementType: cell(row, "movement_type"),
		Quantity:     parseInt(cell(row, "quantity")),
		UnitCost:     parseDecimal(cell(row, "unit_cost")),
		SupplierID:   cell(row, "supplier_id"),
	}
}
