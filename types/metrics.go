package types

import "time"

// Metrics is one snapshot in the append-only business metrics log.
type Metrics struct {
	ID             int       `json:"id" db:"id"`
	Revenue        float64   `json:"revenue" db:"revenue"`
	Users          int       `json:"users" db:"users"`
	Orders         int       `json:"orders" db:"orders"`
	ConversionRate float64   `json:"conversionRate" db:"conversion_rate"`
	Date           time.Time `json:"date" db:"date"`
}

// NewMetrics holds the caller-supplied fields for a metrics snapshot.
type NewMetrics struct {
	Revenue        float64 `json:"revenue" yaml:"revenue"`
	Users          int     `json:"users" yaml:"users"`
	Orders         int     `json:"orders" yaml:"orders"`
	ConversionRate float64 `json:"conversionRate" yaml:"conversionRate"`
}

// Build returns the metrics record described by n with the given identity.
func (n NewMetrics) Build(id int, date time.Time) Metrics {
	return Metrics{
		ID:             id,
		Revenue:        n.Revenue,
		Users:          n.Users,
		Orders:         n.Orders,
		ConversionRate: n.ConversionRate,
		Date:           date,
	}
}

// ChartData is the monthly revenue and user series rendered by the
// dashboard charts.
type ChartData struct {
	Revenue []float64 `json:"revenue"`
	Users   []int     `json:"users"`
	Labels  []string  `json:"labels"`
}
