package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/user/medallion/internal/domain"
)

// BuildInventoryMovement totals stock movements per day, product, warehouse
// and movement type. Rows without a product name fall out of this rollup;
// a missing unit cost contributes nothing to total_cost.
func BuildInventoryMovement(records []domain.MovementRecord, generatedAt time.Time) []domain.InventoryMovementSummary {
	type acc struct {
		quantity int64
		cost     decimal.Decimal
		count    int
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		if !rec.IsValid || rec.Timestamp == nil || rec.ProductID == nil || rec.WarehouseID == nil || rec.MovementType == nil || rec.Quantity == nil {
			continue
		}
		if rec.ProductName == nil {
			continue
		}
		key := groupKey(dateKey(*rec.Timestamp), *rec.ProductID, *rec.ProductName, *rec.WarehouseID, *rec.MovementType)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.quantity += *rec.Quantity
		if rec.UnitCost != nil {
			g.cost = g.cost.Add(*rec.UnitCost)
		}
		g.count++
	}

	var rows []domain.InventoryMovementSummary
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		parts := splitKey(key)
		rows = append(rows, domain.InventoryMovementSummary{
			Date:          parts[0],
			ProductID:     parts[1],
			ProductName:   parts[2],
			WarehouseID:   parts[3],
			MovementType:  parts[4],
			TotalQuantity: g.quantity,
			TotalCost:     g.cost.Round(2),
			MovementCount: g.count,
			GeneratedAt:   generatedAt,
		})
	}
	return rows
}

// BuildNetPosition pivots movement types into per-group columns and derives
// net_position = inbound - outbound. Movement types absent for a group
// default to zero.
func BuildNetPosition(records []domain.MovementRecord, generatedAt time.Time) []domain.InventoryNetPosition {
	type acc struct {
		inbound    int64
		outbound   int64
		adjustment int64
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		if !rec.IsValid || rec.Timestamp == nil || rec.ProductID == nil || rec.WarehouseID == nil || rec.MovementType == nil || rec.Quantity == nil {
			continue
		}
		if rec.ProductName == nil {
			continue
		}
		key := groupKey(dateKey(*rec.Timestamp), *rec.ProductID, *rec.ProductName, *rec.WarehouseID)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		switch *rec.MovementType {
		case domain.MovementInbound:
			g.inbound += *rec.Quantity
		case domain.MovementOutbound:
			g.outbound += *rec.Quantity
		case domain.MovementAdjustment:
			g.adjustment += *rec.Quantity
		}
	}

	var rows []domain.InventoryNetPosition
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		parts := splitKey(key)
		rows = append(rows, domain.InventoryNetPosition{
			Date:        parts[0],
			ProductID:   parts[1],
			ProductName: parts[2],
			WarehouseID: parts[3],
			Inbound:     g.inbound,
			Outbound:    g.outbound,
			Adjustment:  g.adjustment,
			NetPosition: g.inbound - g.outbound,
			GeneratedAt: generatedAt,
		})
	}
	return rows
}
