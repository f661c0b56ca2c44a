package aggregate

import (
	"time"

	"github.com/user/medallion/internal/domain"
)

// BuildCustomerActivity counts events per day and event type over valid
// records.
func BuildCustomerActivity(records []domain.EventRecord, generatedAt time.Time) []domain.CustomerActivitySummary {
	type acc struct {
		events    int
		customers map[string]struct{}
		sessions  map[string]struct{}
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		if !rec.IsValid || rec.Timestamp == nil || rec.EventType == nil || rec.CustomerID == nil || rec.SessionID == nil {
			continue
		}
		key := groupKey(dateKey(*rec.Timestamp), *rec.EventType)
		g, ok := groups[key]
		if !ok {
			g = &acc{customers: make(map[string]struct{}), sessions: make(map[string]struct{})}
			groups[key] = g
		}
		g.events++
		g.customers[*rec.CustomerID] = struct{}{}
		g.sessions[*rec.SessionID] = struct{}{}
	}

	var rows []domain.CustomerActivitySummary
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		parts := splitKey(key)
		rows = append(rows, domain.CustomerActivitySummary{
			Date:            parts[0],
			EventType:       parts[1],
			EventCount:      g.events,
			UniqueCustomers: len(g.customers),
			UniqueSessions:  len(g.sessions),
			GeneratedAt:     generatedAt,
		})
	}
	return rows
}

// BuildDeviceUsage counts sessions and events per day and device type.
// Rows without a device type fall out of this rollup.
func BuildDeviceUsage(records []domain.EventRecord, generatedAt time.Time) []domain.DeviceUsageSummary {
	type acc struct {
		events   int
		sessions map[string]struct{}
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		if !rec.IsValid || rec.Timestamp == nil || rec.SessionID == nil {
			continue
		}
		if rec.DeviceType == nil {
			continue
		}
		key := groupKey(dateKey(*rec.Timestamp), *rec.DeviceType)
		g, ok := groups[key]
		if !ok {
			g = &acc{sessions: make(map[string]struct{})}
			groups[key] = g
		}
		g.events++
		g.sessions[*rec.SessionID] = struct{}{}
	}

	var rows []domain.DeviceUsageSummary
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		parts := splitKey(key)
		rows = append(rows, domain.DeviceUsageSummary{
			Date:         parts[0],
			DeviceType:   parts[1],
			SessionCount: len(g.sessions),
			EventCount:   g.events,
			GeneratedAt:  generatedAt,
		})
	}
	return rows
}
