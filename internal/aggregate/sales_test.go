package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/user/medallion/internal/domain"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return &d
}

func validSale(t *testing.T, saleID, customerID, category, total string, ts time.Time) domain.SalesRecord {
	t.Helper()
	return domain.SalesRecord{
		SaleID:        strPtr(saleID),
		Timestamp:     timePtr(ts),
		CustomerID:    strPtr(customerID),
		ProductID:     strPtr("PROD-101"),
		ProductName:   strPtr("Laptop"),
		Category:      strPtr(category),
		Quantity:      int64Ptr(1),
		UnitPrice:     decPtr(t, total),
		TotalAmount:   decPtr(t, total),
		PaymentMethod: strPtr("credit_card"),
		Status:        strPtr("completed"),
		Validation:    domain.Validation{IsValid: true, ValidationErrors: []domain.Tag{}, ProcessedAt: ts},
	}
}

func int64Ptr(n int64) *int64 { return &n }

func TestBuildDailySales(t *testing.T) {
	day1 := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)
	generatedAt := time.Now().UTC()

	records := []domain.SalesRecord{
		validSale(t, "S-1", "CUST-1", "Electronics", "10.00", day1),
		validSale(t, "S-2", "CUST-1", "Books", "20.00", day1),
		validSale(t, "S-3", "CUST-2", "Electronics", "5.00", day2),
	}

	rows := BuildDailySales(records, generatedAt)
	if len(rows) != 2 {
		t.Fatalf("expected 2 daily rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Date != "2026-08-28" {
		t.Errorf("expected sorted dates, first was %s", first.Date)
	}
	if !first.TotalRevenue.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("expected revenue 30.00, got %s", first.TotalRevenue)
	}
	if first.OrderCount != 2 {
		t.Errorf("expected 2 orders, got %d", first.OrderCount)
	}
	if !first.AvgOrderValue.Equal(decimal.RequireFromString("15.00")) {
		t.Errorf("expected avg order value 15.00, got %s", first.AvgOrderValue)
	}
	if first.UniqueCustomers != 1 {
		t.Errorf("expected 1 unique customer, got %d", first.UniqueCustomers)
	}
	if !first.GeneratedAt.Equal(generatedAt) {
		t.Errorf("expected generated_at %v, got %v", generatedAt, first.GeneratedAt)
	}
}

func TestBuildDailySales_InvalidRowsExcluded(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	invalid := validSale(t, "S-1", "CUST-1", "Books", "10.00", ts)
	invalid.IsValid = false
	invalid.ValidationErrors = []domain.Tag{domain.NullTag("quantity")}

	rows := BuildDailySales([]domain.SalesRecord{invalid}, time.Now().UTC())
	if len(rows) != 0 {
		t.Fatalf("expected no rows from invalid input, got %d", len(rows))
	}
}

func TestBuildDailySales_DuplicateSaleIDCountedOnce(t *testing.T) {
	// Silver can hold the same sale twice across partitions after a
	// crash-and-reprocess; order_count is distinct on sale_id.
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	records := []domain.SalesRecord{
		validSale(t, "S-1", "CUST-1", "Books", "10.00", ts),
		validSale(t, "S-1", "CUST-1", "Books", "10.00", ts),
	}

	rows := BuildDailySales(records, time.Now().UTC())
	if rows[0].OrderCount != 1 {
		t.Errorf("expected order count 1 for duplicated sale id, got %d", rows[0].OrderCount)
	}
}

func TestBuildCategorySales_NilCategoryExcluded(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	withCategory := validSale(t, "S-1", "CUST-1", "Books", "10.00", ts)
	without := validSale(t, "S-2", "CUST-2", "Books", "20.00", ts)
	without.Category = nil

	rows := BuildCategorySales([]domain.SalesRecord{withCategory, without}, time.Now().UTC())
	if len(rows) != 1 {
		t.Fatalf("expected 1 category row, got %d", len(rows))
	}
	if rows[0].Category != "Books" || !rows[0].CategoryRevenue.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("unexpected category row: %+v", rows[0])
	}
}

func TestBuildPaymentMethod(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	card := validSale(t, "S-1", "CUST-1", "Books", "10.00", ts)
	paypal := validSale(t, "S-2", "CUST-2", "Books", "25.00", ts)
	paypal.PaymentMethod = strPtr("paypal")

	rows := BuildPaymentMethod([]domain.SalesRecord{card, paypal}, time.Now().UTC())
	if len(rows) != 2 {
		t.Fatalf("expected 2 payment rows, got %d", len(rows))
	}
	// Sorted by (date, payment_method).
	if rows[0].PaymentMethod != "credit_card" || rows[1].PaymentMethod != "paypal" {
		t.Errorf("unexpected payment ordering: %s, %s", rows[0].PaymentMethod, rows[1].PaymentMethod)
	}
	if !rows[1].PaymentRevenue.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("expected paypal revenue 25.00, got %s", rows[1].PaymentRevenue)
	}
}

func TestBuildDailySales_EmptyInput(t *testing.T) {
	if rows := BuildDailySales(nil, time.Now().UTC()); len(rows) != 0 {
		t.Errorf("expected no rows for empty input, got %d", len(rows))
	}
}
