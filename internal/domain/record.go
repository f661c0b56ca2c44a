package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain identifies one fact table flowing through the lake.
type Domain string

const (
	DomainSales          Domain = "sales"
	DomainCustomerEvents Domain = "customer_events"
	DomainInventory      Domain = "inventory"
)

// AllDomains returns every domain in a fixed processing order.
func AllDomains() []Domain {
	return []Domain{DomainSales, DomainCustomerEvents, DomainInventory}
}

// Movement type values accepted for inventory records. The net-position
// rollup pivots on exactly these three values.
const (
	MovementInbound    = "inbound"
	MovementOutbound   = "outbound"
	MovementAdjustment = "adjustment"
)

// Tag is a structured validation error code attached to a record.
// Tags are ordered by detection and a record is valid iff it carries none.
type Tag string

const (
	TagInvalidEventType    Tag = "INVALID_EVENT_TYPE"
	TagInvalidMovementType Tag = "INVALID_MOVEMENT_TYPE"
	TagNonPositiveQuantity Tag = "NON_POSITIVE_QUANTITY"
)

// NullTag marks a missing required field.
func NullTag(field string) Tag {
	return Tag("NULL:" + field)
}

// Validation is the trailer the cleaning engine appends to every record.
type Validation struct {
	IsValid          bool      `json:"is_valid"`
	ValidationErrors []Tag     `json:"validation_errors"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// SalesRecord is one cleaned fact_sales row. Nullable raw fields are
// pointers; nil means the source cell was missing or unparsable.
type SalesRecord struct {
	SaleID        *string          `json:"sale_id"`
	Timestamp     *time.Time       `json:"timestamp"`
	CustomerID    *string          `json:"customer_id"`
	ProductID     *string          `json:"product_id"`
	ProductName   *string          `json:"product_name"`
	Category      *string          `json:"category"`
	Quantity      *int64           `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	PaymentMethod *string          `json:"payment_method"`
	Status        *string          `json:"status"`
	Validation
}

// EventRecord is one cleaned fact_customer_events row.
type EventRecord struct {
	EventID    *string    `json:"event_id"`
	Timestamp  *time.Time `json:"timestamp"`
	CustomerID *string    `json:"customer_id"`
	SessionID  *string    `json:"session_id"`
	EventType  *string    `json:"event_type"`
	ProductID  *string    `json:"product_id"`
	PageURL    *string    `json:"page_url"`
	DeviceType *string    `json:"device_type"`
	Validation
}

// MovementRecord is one cleaned fact_inventory_movements row.
type MovementRecord struct {
	MovementID   *string          `json:"movement_id"`
	Timestamp    *time.Time       `json:"timestamp"`
	ProductID    *string          `json:"product_id"`
	ProductName  *string          `json:"product_name"`
	WarehouseID  *string          `json:"warehouse_id"`
	MovementType *string          `json:"movement_type"`
	Quantity     *int64           `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	SupplierID   *string          `json:"supplier_id"`
	Validation
}
