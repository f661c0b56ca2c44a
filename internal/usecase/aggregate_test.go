package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/user/medallion/internal/adapter/metrics"
	"github.com/user/medallion/internal/domain"
	"github.com/user/medallion/internal/domain/mocks"
)

func newAggregateService(lake *mocks.MockLakeStore) *AggregateService {
	m := metrics.NewPipelineMetrics(prometheus.NewRegistry())
	return NewAggregateService(lake, m, testLogger())
}

func strPtr(s string) *string                  { return &s }
func int64Ptr(n int64) *int64                  { return &n }
func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func cleanedSale(t *testing.T, saleID string, total string) []byte {
	t.Helper()
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString(total)
	unit := decimal.RequireFromString("15.00")
	rec := domain.SalesRecord{
		SaleID:        strPtr(saleID),
		Timestamp:     &ts,
		CustomerID:    strPtr("CUST-1"),
		ProductID:     strPtr("PROD-1"),
		ProductName:   strPtr("Widget"),
		Category:      strPtr("Gadgets"),
		Quantity:      int64Ptr(2),
		UnitPrice:     decPtr(unit),
		TotalAmount:   decPtr(amount),
		PaymentMethod: strPtr("credit_card"),
		Validation: domain.Validation{
			IsValid:          true,
			ValidationErrors: []domain.Tag{},
			ProcessedAt:      ts,
		},
	}
	line, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("failed to encode record: %v", err)
	}
	return line
}

func cleanedMovement(t *testing.T, movementID, movementType string, quantity int64) []byte {
	t.Helper()
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cost := decimal.RequireFromString("3.00")
	rec := domain.MovementRecord{
		MovementID:   strPtr(movementID),
		Timestamp:    &ts,
		ProductID:    strPtr("PROD-1"),
		ProductName:  strPtr("Widget"),
		WarehouseID:  strPtr("WH-1"),
		MovementType: strPtr(movementType),
		Quantity:     int64Ptr(quantity),
		UnitCost:     decPtr(cost),
		Validation: domain.Validation{
			IsValid:          true,
			ValidationErrors: []domain.Tag{},
			ProcessedAt:      ts,
		},
	}
	line, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("failed to encode record: %v", err)
	}
	return line
}

func TestAggregateService_WritesSalesSnapshots(t *testing.T) {
	lake := mocks.NewMockLakeStore()
	lake.CleanedPartitions[domain.DomainSales] = [][][]byte{{
		cleanedSale(t, "S-1", "30.00"),
		cleanedSale(t, "S-2", "45.00"),
	}}

	svc := newAggregateService(lake)
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, table := range []string{
		domain.TableDailySales,
		domain.TableCategorySales,
		domain.TablePaymentMethod,
	} {
		if got := len(lake.Snapshots[table]); got != 1 {
			t.Errorf("table %s: expected 1 snapshot, got %d", table, got)
		}
	}

	daily := lake.Snapshots[domain.TableDailySales][0]
	if len(daily) != 1 {
		t.Fatalf("expected 1 daily row, got %d", len(daily))
	}
	if !bytes.Contains(daily[0], []byte(`"total_revenue":"75.00"`)) {
		t.Errorf("expected revenue 75.00 in daily row, got %s", daily[0])
	}
}

func TestAggregateService_EmptyDomainsWriteNothing(t *testing.T) {
	lake := mocks.NewMockLakeStore()

	svc := newAggregateService(lake)
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(lake.Snapshots) != 0 {
		t.Errorf("expected no snapshots for empty lake, got %v", len(lake.Snapshots))
	}
}

func TestAggregateService_RerunAppendsNewSnapshots(t *testing.T) {
	lake := mocks.NewMockLakeStore()
	lake.CleanedPartitions[domain.DomainInventory] = [][][]byte{{
		cleanedMovement(t, "M-1", domain.MovementInbound, 50),
		cleanedMovement(t, "M-2", domain.MovementOutbound, 20),
	}}

	svc := newAggregateService(lake)
	ctx := context.Background()
	if err := svc.Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := svc.Run(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if got := len(lake.Snapshots[domain.TableNetPosition]); got != 2 {
		t.Fatalf("expected 2 net-position snapshots, got %d", got)
	}
	for _, snapshot := range lake.Snapshots[domain.TableNetPosition] {
		if len(snapshot) != 1 {
			t.Fatalf("expected 1 net-position row, got %d", len(snapshot))
		}
		if !bytes.Contains(snapshot[0], []byte(`"net_position":30`)) {
			t.Errorf("expected net position 30, got %s", snapshot[0])
		}
	}
}

func TestAggregateService_SkipsUndecodableLines(t *testing.T) {
	lake := mocks.NewMockLakeStore()
	lake.CleanedPartitions[domain.DomainSales] = [][][]byte{{
		[]byte(`{not json`),
		cleanedSale(t, "S-1", "30.00"),
	}}

	svc := newAggregateService(lake)
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("expected corrupt line to be skipped, got %v", err)
	}
	daily := lake.Snapshots[domain.TableDailySales]
	if len(daily) != 1 || len(daily[0]) != 1 {
		t.Fatalf("expected 1 daily row from the surviving record, got %v", daily)
	}
	if !bytes.Contains(daily[0][0], []byte(`"order_count":1`)) {
		t.Errorf("expected order count 1, got %s", daily[0][0])
	}
}
