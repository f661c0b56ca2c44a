package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/user/medallion/internal/domain"
)

func validMovement(t *testing.T, id, movementType string, quantity int64, ts time.Time) domain.MovementRecord {
	t.Helper()
	return domain.MovementRecord{
		MovementID:   strPtr(id),
		Timestamp:    timePtr(ts),
		ProductID:    strPtr("PROD-101"),
		ProductName:  strPtr("Laptop"),
		WarehouseID:  strPtr("WH-NORTH-01"),
		MovementType: strPtr(movementType),
		Quantity:     int64Ptr(quantity),
		UnitCost:     decPtr(t, "120.50"),
		Validation:   domain.Validation{IsValid: true, ValidationErrors: []domain.Tag{}, ProcessedAt: ts},
	}
}

func TestBuildNetPosition_Pivot(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	records := []domain.MovementRecord{
		validMovement(t, "M-1", domain.MovementInbound, 50, ts),
		validMovement(t, "M-2", domain.MovementOutbound, 20, ts),
		validMovement(t, "M-3", domain.MovementAdjustment, 5, ts),
	}

	rows := BuildNetPosition(records, time.Now().UTC())
	if len(rows) != 1 {
		t.Fatalf("expected 1 net position row, got %d", len(rows))
	}

	row := rows[0]
	if row.Inbound != 50 || row.Outbound != 20 || row.Adjustment != 5 {
		t.Errorf("unexpected pivot columns: inbound=%d outbound=%d adjustment=%d",
			row.Inbound, row.Outbound, row.Adjustment)
	}
	if row.NetPosition != 30 {
		t.Errorf("expected net position 30, got %d", row.NetPosition)
	}
}

func TestBuildNetPosition_MissingTypesDefaultToZero(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	records := []domain.MovementRecord{
		validMovement(t, "M-1", domain.MovementOutbound, 20, ts),
	}

	rows := BuildNetPosition(records, time.Now().UTC())
	row := rows[0]
	if row.Inbound != 0 || row.Adjustment != 0 {
		t.Errorf("expected zero defaults, got inbound=%d adjustment=%d", row.Inbound, row.Adjustment)
	}
	if row.NetPosition != -20 {
		t.Errorf("expected net position -20, got %d", row.NetPosition)
	}
}

func TestBuildNetPosition_GroupsByWarehouse(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	north := validMovement(t, "M-1", domain.MovementInbound, 50, ts)
	south := validMovement(t, "M-2", domain.MovementInbound, 10, ts)
	south.WarehouseID = strPtr("WH-SOUTH-02")

	rows := BuildNetPosition([]domain.MovementRecord{north, south}, time.Now().UTC())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for 2 warehouses, got %d", len(rows))
	}
	if rows[0].WarehouseID != "WH-NORTH-01" || rows[1].WarehouseID != "WH-SOUTH-02" {
		t.Errorf("unexpected warehouse ordering: %s, %s", rows[0].WarehouseID, rows[1].WarehouseID)
	}
}

func TestBuildInventoryMovement(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	records := []domain.MovementRecord{
		validMovement(t, "M-1", domain.MovementInbound, 50, ts),
		validMovement(t, "M-2", domain.MovementInbound, 30, ts),
		validMovement(t, "M-3", domain.MovementOutbound, 10, ts),
	}

	rows := BuildInventoryMovement(records, time.Now().UTC())
	if len(rows) != 2 {
		t.Fatalf("expected 2 movement rows, got %d", len(rows))
	}

	inbound := rows[0]
	if inbound.MovementType != domain.MovementInbound {
		t.Fatalf("expected inbound row first, got %s", inbound.MovementType)
	}
	if inbound.TotalQuantity != 80 || inbound.MovementCount != 2 {
		t.Errorf("unexpected inbound totals: quantity=%d count=%d", inbound.TotalQuantity, inbound.MovementCount)
	}
	if !inbound.TotalCost.Equal(decimal.RequireFromString("241.00")) {
		t.Errorf("expected total cost 241.00, got %s", inbound.TotalCost)
	}
}

func TestBuildInventoryMovement_NilUnitCostContributesNothing(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	with := validMovement(t, "M-1", domain.MovementInbound, 50, ts)
	without := validMovement(t, "M-2", domain.MovementInbound, 30, ts)
	without.UnitCost = nil

	rows := BuildInventoryMovement([]domain.MovementRecord{with, without}, time.Now().UTC())
	if !rows[0].TotalCost.Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("expected total cost 120.50, got %s", rows[0].TotalCost)
	}
	if rows[0].MovementCount != 2 {
		t.Errorf("expected both movements counted, got %d", rows[0].MovementCount)
	}
}

func TestBuildNetPosition_InvalidAndEmptyInput(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	invalid := validMovement(t, "M-1", "TRANSFER", 10, ts)
	invalid.IsValid = false
	invalid.ValidationErrors = []domain.Tag{domain.TagInvalidMovementType}

	if rows := BuildNetPosition([]domain.MovementRecord{invalid}, time.Now().UTC()); len(rows) != 0 {
		t.Errorf("expected no rows from invalid input, got %d", len(rows))
	}
	if rows := BuildNetPosition(nil, time.Now().UTC()); len(rows) != 0 {
		t.Errorf("expected no rows from empty input, got %d", len(rows))
	}
}
