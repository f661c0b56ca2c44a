package generator

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var eventColumns = []string{
	"event_id", "timestamp", "customer_id", "session_id", "event_type",
	"product_id", "page_url", "device_type",
}

var eventTypes = []string{"login", "browse", "add_to_cart", "checkout", "logout"}

var deviceTypes = []string{"desktop", "mobile", "tablet"}

var pageURLs = []string{
	"/home", "/products", "/products/electronics", "/products/clothing",
	"/cart", "/checkout", "/profile", "/search", "/promotions",
}

// EventsBatch builds one CSV batch of synthetic clickstream events spread
// over a handful of concurrent sessions. A few rows carry the invalid
// event type UNKNOWN, and a few leave customer_id blank.
func (g *Generator) EventsBatch(rows int, now time.Time) []byte {
	sessions := make([]string, 3)
	for i := range sessions {
		sessions[i] = uuid.NewString()
	}

	out := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		eventType := g.pick(eventTypes)
		if g.rng.Float64() < invalidEnumRate {
			eventType = "UNKNOWN"
		}

		customer := fmt.Sprintf("CUST-%d", 1000+g.rng.Intn(9000))
		if g.rng.Float64() < nullCustomerRate {
			customer = ""
		}

		// Only product-facing events reference a product.
		product := ""
		switch eventType {
		case "browse", "add_to_cart", "checkout":
			product = fmt.Sprintf("PROD-%d", 100+g.rng.Intn(100))
		}

		out = append(out, []string{
			uuid.NewString(),
			g.jitter(now, 60),
			customer,
			g.pick(sessions),
			eventType,
			product,
			g.pick(pageURLs),
			g.pick(deviceTypes),
		})
	}
	return g.encodeCSV(eventColumns, out)
}
