package generator

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/user/medallion/internal/domain"
)

var inventoryColumns = []string{
	"movement_id", "timestamp", "product_id", "product_name", "warehouse_id",
	"movement_type", "quantity", "unit_cost", "supplier_id",
}

var warehouses = []string{"WH-NORTH-01", "WH-SOUTH-02", "WH-EAST-03", "WH-WEST-04"}

var movementTypes = []string{
	domain.MovementInbound, domain.MovementOutbound, domain.MovementAdjustment,
}

// catalogueEntry pins a product name to a fixed id, unlike the sales
// generator which assigns ids lazily.
type catalogueEntry struct {
	id   string
	name string
}

var inventoryCatalogue = []catalogueEntry{
	{"PROD-101", "Laptop"}, {"PROD-102", "Smartphone"},
	{"PROD-103", "Tablet"}, {"PROD-201", "T-Shirt"},
	{"PROD-202", "Jeans"}, {"PROD-301", "Coffee"},
	{"PROD-401", "Blender"}, {"PROD-501", "Yoga Mat"},
	{"PROD-502", "Dumbbell"}, {"PROD-601", "Python Programming"},
}

// InventoryBatch builds one CSV batch of synthetic warehouse movements.
// A few rows carry the invalid movement type TRANSFER, and a few have a
// blank or zero quantity.
func (g *Generator) InventoryBatch(rows int, now time.Time) []byte {
	out := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		product := inventoryCatalogue[g.rng.Intn(len(inventoryCatalogue))]
		movementType := g.pick(movementTypes)
		unitCost := math.Round((1+g.rng.Float64()*299)*100) / 100

		if g.rng.Float64() < invalidEnumRate {
			movementType = "TRANSFER"
		}

		quantityCell := fmt.Sprintf("%d", 1+g.rng.Intn(200))
		if g.rng.Float64() < nullQuantityRate {
			if g.rng.Float64() < 0.5 {
				quantityCell = ""
			} else {
				quantityCell = "0"
			}
		}

		supplier := ""
		if movementType == domain.MovementInbound {
			supplier = fmt.Sprintf("SUP-%03d", 1+g.rng.Intn(10))
		}

		out = append(out, []string{
			uuid.NewString(),
			g.jitter(now, 120),
			product.id,
			product.name,
			g.pick(warehouses),
			movementType,
			quantityCell,
			formatMoney(unitCost),
			supplier,
		})
	}
	return g.encodeCSV(inventoryColumns, out)
}
