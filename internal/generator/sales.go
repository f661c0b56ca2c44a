package generator

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

var salesColumns = []string{
	"sale_id", "timestamp", "customer_id", "product_id", "product_name",
	"category", "quantity", "unit_price", "total_amount", "payment_method",
	"status",
}

var productsByCategory = map[string][]string{
	"Electronics":     {"Laptop", "Smartphone", "Tablet", "Headphones", "Smartwatch"},
	"Clothing":        {"T-Shirt", "Jeans", "Jacket", "Shoes", "Dress"},
	"Food & Beverage": {"Coffee", "Tea", "Juice", "Snack Pack", "Energy Drink"},
	"Home & Kitchen":  {"Blender", "Coffee Maker", "Toaster", "Knife Set", "Cookware"},
	"Sports":          {"Running Shoes", "Yoga Mat", "Dumbbell", "Resistance Band", "Water Bottle"},
	"Books":           {"Python Programming", "Data Engineering", "Machine Learning", "SQL Guide", "Cloud Architecture"},
}

var salesCategories = []string{
	"Electronics", "Clothing", "Food & Beverage", "Home & Kitchen", "Sports", "Books",
}

var paymentMethods = []string{"credit_card", "debit_card", "paypal", "bank_transfer", "crypto"}

// Weighted toward completed.
var orderStatuses = []string{"completed", "completed", "completed", "pending", "refunded"}

// SalesBatch builds one CSV batch of synthetic sales transactions. A few
// rows carry a total_amount that disagrees with quantity x unit_price, and
// a few leave quantity blank.
func (g *Generator) SalesBatch(rows int, now time.Time) []byte {
	out := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		category := g.pick(salesCategories)
		product := g.pick(productsByCategory[category])
		quantity := 1 + g.rng.Intn(10)
		unitPrice := math.Round((5+g.rng.Float64()*495)*100) / 100
		total := math.Round(float64(quantity)*unitPrice*100) / 100

		if g.rng.Float64() < corruptTotalRate {
			total = math.Round(total*(0.7+g.rng.Float64()*0.6)*100) / 100
		}

		quantityCell := fmt.Sprintf("%d", quantity)
		if g.rng.Float64() < nullQuantityRate {
			quantityCell = ""
		}

		out = append(out, []string{
			uuid.NewString(),
			g.jitter(now, 30),
			fmt.Sprintf("CUST-%d", 1000+g.rng.Intn(9000)),
			g.productID(product),
			product,
			category,
			quantityCell,
			formatMoney(unitPrice),
			formatMoney(total),
			g.pick(paymentMethods),
			g.pick(orderStatuses),
		})
	}
	return g.encodeCSV(salesColumns, out)
}
