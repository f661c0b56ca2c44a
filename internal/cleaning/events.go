package cleaning

import (
	"time"

	"github.com/user/medallion/internal/domain"
)

var validEventTypes = map[string]struct{}{
	"login":       {},
	"browse":      {},
	"add_to_cart": {},
	"checkout":    {},
	"logout":      {},
}

// EventsResult is the outcome of cleaning one run's concatenated
// customer-event input.
type EventsResult struct {
	Records           []domain.EventRecord
	DuplicatesRemoved int
	Valid             int
}

// CleanEvents deduplicates on event_id (first occurrence wins), flags
// missing required fields, and flags unrecognised event types. Enum checks
// only apply when the field is present; a missing event_type is a null
// finding, not an invalid-enum finding.
func CleanEvents(rows []map[string]string, now time.Time) EventsResult {
	var result EventsResult

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		rec := parseEventRow(row)
		if rec.EventID != nil {
			if _, dup := seen[*rec.EventID]; dup {
				result.DuplicatesRemoved++
				continue
			}
			seen[*rec.EventID] = struct{}{}
		}
		result.Records = append(result.Records, rec)
	}

	for i := range result.Records {
		rec := &result.Records[i]

		var tags []domain.Tag
		for _, field := range [...]struct {
			name    string
			present bool
		}{
			{"event_id", rec.EventID != nil},
			{"timestamp", rec.Timestamp != nil},
			{"customer_id", rec.CustomerID != nil},
			{"session_id", rec.SessionID != nil},
			{"event_type", rec.EventType != nil},
		} {
			if !field.present {
				tags = append(tags, domain.NullTag(field.name))
			}
		}

		if rec.EventType != nil {
			if _, ok := validEventTypes[*rec.EventType]; !ok {
				tags = append(tags, domain.TagInvalidEventType)
			}
		}

		finalize(&rec.Validation, tags, now)
		if rec.IsValid {
			result.Valid++
		}
	}

	return result
}

func parseEventRow(row map[string]string) domain.EventRecord {
	return domain.EventRecord{
		EventID:    cell(row, "event_id"),
		Timestamp:  parseTime(cell(row, "timestamp")),
		CustomerID: cell(row, "customer_id"),
		SessionID:  cell(row, "session_id"),
		EventType:  cell(row, "event_type"),
		ProductID:  cell(row, "product_id"),
		PageURL:    cell(row, "page_url"),
		DeviceType: cell(row, "device_type"),
	}
}
