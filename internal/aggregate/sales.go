package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/user/medallion/internal/domain"
)

// BuildDailySales computes the per-day sales KPI rollup over valid records.
func BuildDailySales(records []domain.SalesRecord, generatedAt time.Time) []domain.DailySalesSummary {
	type acc struct {
		revenue   decimal.Decimal
		rows      int
		orders    map[string]struct{}
		customers map[string]struct{}
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		if !rec.IsValid || rec.Timestamp == nil || rec.TotalAmount == nil || rec.SaleID == nil || rec.CustomerID == nil {
			continue
		}
		key := dateKey(*rec.Timestamp)
		g, ok := groups[key]
		if !ok {
			g = &acc{orders: make(map[string]struct{}), customers: make(map[string]struct{})}
			groups[key] = g
		}
		g.revenue = g.revenue.Add(*rec.TotalAmount)
		g.rows++
		g.orders[*rec.SaleID] = struct{}{}
		g.customers[*rec.CustomerID] = struct{}{}
	}

	var rows []domain.DailySalesSummary
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		rows = append(rows, domain.DailySalesSummary{
			Date:            key,
			TotalRevenue:    g.revenue.Round(2),
			OrderCount:      len(g.orders),
			AvgOrderValue:   meanRound2(g.revenue, g.rows),
			UniqueCustomers: len(g.customers),
			GeneratedAt:     generatedAt,
		})
	}
	return rows
}

// BuildCategorySales breaks daily revenue down by product category. Rows
// without a category fall out of this rollup.
func BuildCategorySales(records []domain.SalesRecord, generatedAt time.Time) []domain.CategorySalesSummary {
	type acc struct {
		revenue   decimal.Decimal
		unitPrice decimal.Decimal
		rows      int
		orders    map[string]struct{}
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		if !rec.IsValid || rec.Timestamp == nil || rec.TotalAmount == nil || rec.SaleID == nil || rec.UnitPrice == nil {
			continue
		}
		if rec.Category == nil {
			continue
		}
		key := groupKey(dateKey(*rec.Timestamp), *rec.Category)
		g, ok := groups[key]
		if !ok {
			g = &acc{orders: make(map[string]struct{})}
			groups[key] = g
		}
		g.revenue = g.revenue.Add(*rec.TotalAmount)
		g.unitPrice = g.unitPrice.Add(*rec.UnitPrice)
		g.rows++
		g.orders[*rec.SaleID] = struct{}{}
	}

	var rows []domain.CategorySalesSummary
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		parts := splitKey(key)
		rows = append(rows, domain.CategorySalesSummary{
			Date:            parts[0],
			Category:        parts[1],
			CategoryRevenue: g.revenue.Round(2),
			CategoryOrders:  len(g.orders),
			AvgUnitPrice:    meanRound2(g.unitPrice, g.rows),
			GeneratedAt:     generatedAt,
		})
	}
	return rows
}

// BuildPaymentMethod breaks daily revenue down by payment method.
func BuildPaymentMethod(records []domain.SalesRecord, generatedAt time.Time) []domain.PaymentMethodSummary {
	type acc struct {
		revenue decimal.Decimal
		orders  map[string]struct{}
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		if !rec.IsValid || rec.Timestamp == nil || rec.TotalAmount == nil || rec.SaleID == nil {
			continue
		}
		if rec.PaymentMethod == nil {
			continue
		}
		key := groupKey(dateKey(*rec.Timestamp), *rec.PaymentMethod)
		g, ok := groups[key]
		if !ok {
			g = &acc{orders: make(map[string]struct{})}
			groups[key] = g
		}
		g.revenue = g.revenue.Add(*rec.TotalAmount)
		g.orders[*rec.SaleID] = struct{}{}
	}

	var rows []domain.PaymentMethodSummary
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		parts := splitKey(key)
		rows = append(rows, domain.PaymentMethodSummary{
			Date:           parts[0],
			PaymentMethod:  parts[1],
			PaymentRevenue: g.revenue.Round(2),
			PaymentCount:   len(g.orders),
			GeneratedAt:    generatedAt,
		})
	}
	return rows
}
