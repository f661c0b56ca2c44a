package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gold table names. Each aggregation run writes one new snapshot per table.
const (
	TableDailySales        = "daily_sales_summary"
	TableCategorySales     = "category_sales_summary"
	TablePaymentMethod     = "payment_method_summary"
	TableCustomerActivity  = "customer_activity_summary"
	TableDeviceUsage       = "device_usage_summary"
	TableInventoryMovement = "inventory_movement_summary"
	TableNetPosition       = "inventory_net_position"
)

// DailySalesSummary is one row of the per-day sales KPI table.
type DailySalesSummary struct {
	Date            string          `json:"date"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	OrderCount      int             `json:"order_count"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value"`
	UniqueCustomers int             `json:"unique_customers"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// CategorySalesSummary breaks daily revenue down by product category.
type CategorySalesSummary struct {
	Date            string          `json:"date"`
	Category        string          `json:"category"`
	CategoryRevenue decimal.Decimal `json:"category_revenue"`
	CategoryOrders  int             `json:"category_orders"`
	AvgUnitPrice    decimal.Decimal `json:"avg_unit_price"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// PaymentMethodSummary breaks daily revenue down by payment method.
type PaymentMethodSummary struct {
	Date           string          `json:"date"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentRevenue decimal.Decimal `json:"payment_revenue"`
	PaymentCount   int             `json:"payment_count"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// CustomerActivitySummary counts events per day and event type.
type CustomerActivitySummary struct {
	Date            string    `json:"date"`
	EventType       string    `json:"event_type"`
	EventCount      int       `json:"event_count"`
	UniqueCustomers int       `json:"unique_customers"`
	UniqueSessions  int       `json:"unique_sessions"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// DeviceUsageSummary counts sessions and events per day and device.
type DeviceUsageSummary struct {
	Date         string    `json:"date"`
	DeviceType   string    `json:"device_type"`
	SessionCount int       `json:"session_count"`
	EventCount   int       `json:"event_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// InventoryMovementSummary totals stock movements per day, product,
// warehouse and movement type.
type InventoryMovementSummary struct {
	Date          string          `json:"date"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	WarehouseID   string          `json:"warehouse_id"`
	MovementType  string          `json:"movement_type"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	MovementCount int             `json:"movement_count"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// InventoryNetPosition pivots movement types into columns per day,
// product and warehouse. NetPosition = Inbound - Outbound.
type InventoryNetPosition struct {
	Date        string    `json:"date"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	WarehouseID string    `json:"warehouse_id"`
	Inbound     int64     `json:"inbound"`
	Outbound    int64     `json:"outbound"`
	Adjustment  int64     `json:"adjustment"`
	NetPosition int64     `json:"net_position"`
	GeneratedAt time.Time `json:"generated_at"`
}
