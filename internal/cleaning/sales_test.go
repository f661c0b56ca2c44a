package cleaning

import (
	"testing"
	"time"

	"github.com/user/medallion/internal/domain"
)

func salesRow(overrides map[string]string) map[string]string {
	row := map[string]string{
		"sale_id":        "S-1",
		"timestamp":      "2026-08-29T10:15:00Z",
		"customer_id":    "CUST-1001",
		"product_id":     "PROD-101",
		"product_name":   "Laptop",
		"category":       "Electronics",
		"quantity":       "3",
		"unit_price":     "10.00",
		"total_amount":   "30.00",
		"payment_method": "credit_card",
		"status":         "completed",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestCleanSales_ValidRow(t *testing.T) {
	now := time.Now().UTC()
	result := CleanSales([]map[string]string{salesRow(nil)}, now)

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	rec := result.Records[0]
	if !rec.IsValid {
		t.Errorf("expected valid record, got tags %v", rec.ValidationErrors)
	}
	if len(rec.ValidationErrors) != 0 {
		t.Errorf("expected empty tag list, got %v", rec.ValidationErrors)
	}
	if !rec.ProcessedAt.Equal(now) {
		t.Errorf("expected processed_at %v, got %v", now, rec.ProcessedAt)
	}
	if result.Valid != 1 {
		t.Errorf("expected valid count 1, got %d", result.Valid)
	}
}

func TestCleanSales_DedupKeepsFirstOccurrence(t *testing.T) {
	rows := []map[string]string{
		salesRow(map[string]string{"sale_id": "S-1", "customer_id": "CUST-first"}),
		salesRow(map[string]string{"sale_id": "S-2"}),
		salesRow(map[string]string{"sale_id": "S-1", "customer_id": "CUST-second"}),
		salesRow(map[string]string{"sale_id": "S-1", "customer_id": "CUST-third"}),
	}

	result := CleanSales(rows, time.Now().UTC())

	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", len(result.Records))
	}
	if result.DuplicatesRemoved != 2 {
		t.Errorf("expected 2 duplicates removed, got %d", result.DuplicatesRemoved)
	}
	if got := *result.Records[0].CustomerID; got != "CUST-first" {
		t.Errorf("expected first occurrence to win, got customer %s", got)
	}
}

func TestCleanSales_MissingKeyRowsAreNotMerged(t *testing.T) {
	rows := []map[string]string{
		salesRow(map[string]string{"sale_id": ""}),
		salesRow(map[string]string{"sale_id": ""}),
	}

	result := CleanSales(rows, time.Now().UTC())

	if len(result.Records) != 2 {
		t.Fatalf("expected both keyless rows kept, got %d", len(result.Records))
	}
	for i, rec := range result.Records {
		if rec.IsValid {
			t.Errorf("record %d: expected invalid", i)
		}
		if len(rec.ValidationErrors) != 1 || rec.ValidationErrors[0] != domain.NullTag("sale_id") {
			t.Errorf("record %d: expected single NULL:sale_id tag, got %v", i, rec.ValidationErrors)
		}
	}
}

func TestCleanSales_ErrorAccumulation(t *testing.T) {
	rows := []map[string]string{
		salesRow(map[string]string{"customer_id": "", "quantity": ""}),
	}

	result := CleanSales(rows, time.Now().UTC())

	rec := result.Records[0]
	if rec.IsValid {
		t.Fatal("expected record to be invalid")
	}
	want := []domain.Tag{domain.NullTag("customer_id"), domain.NullTag("quantity")}
	if len(rec.ValidationErrors) != len(want) {
		t.Fatalf("expected tags %v, got %v", want, rec.ValidationErrors)
	}
	for i, tag := range want {
		if rec.ValidationErrors[i] != tag {
			t.Errorf("tag %d: expected %s, got %s", i, tag, rec.ValidationErrors[i])
		}
	}
}

func TestCleanSales_TotalAmountRepair(t *testing.T) {
	tests := []struct {
		name       string
		total      string
		wantTotal  string
		wantRepair int
	}{
		{"corrupt total recomputed", "35.00", "30", 1},
		{"drift within tolerance kept", "30.01", "30.01", 0},
		{"exact total kept", "30.00", "30.00", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows := []map[string]string{
				salesRow(map[string]string{"quantity": "3", "unit_price": "10.00", "total_amount": tc.total}),
			}
			result := CleanSales(rows, time.Now().UTC())

			rec := result.Records[0]
			if !rec.TotalAmount.Equal(mustDecimal(t, tc.wantTotal)) {
				t.Errorf("expected total %s, got %s", tc.wantTotal, rec.TotalAmount)
			}
			if result.Repaired != tc.wantRepair {
				t.Errorf("expected %d repairs, got %d", tc.wantRepair, result.Repaired)
			}
			// A repair is a correction, never a rejection.
			if !rec.IsValid {
				t.Errorf("expected repaired record to stay valid, got tags %v", rec.ValidationErrors)
			}
		})
	}
}

func TestCleanSales_NoRepairWhenInputsMissing(t *testing.T) {
	rows := []map[string]string{
		salesRow(map[string]string{"quantity": "", "total_amount": "35.00"}),
	}

	result := CleanSales(rows, time.Now().UTC())

	rec := result.Records[0]
	if result.Repaired != 0 {
		t.Errorf("expected no repair without quantity, got %d", result.Repaired)
	}
	if !rec.TotalAmount.Equal(mustDecimal(t, "35.00")) {
		t.Errorf("expected total untouched, got %s", rec.TotalAmount)
	}
}

func TestCleanSales_UnparsableTimestampFlagged(t *testing.T) {
	rows := []map[string]string{
		salesRow(map[string]string{"timestamp": "not-a-time"}),
	}

	result := CleanSales(rows, time.Now().UTC())

	rec := result.Records[0]
	if rec.IsValid {
		t.Fatal("expected record with bad timestamp to be invalid")
	}
	if rec.ValidationErrors[0] != domain.NullTag("timestamp") {
		t.Errorf("expected NULL:timestamp tag, got %v", rec.ValidationErrors)
	}
}
