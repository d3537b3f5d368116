package models

import "time"

// MetricsFilter narrows a metrics query. Passed by value down the chain;
// exactly one of Enterprise/Organization must end up non-empty before the
// remote API tier is asked.
type MetricsFilter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	Enterprise   string
	Organization string
	Team         string
}

// SeatsFilter narrows a seats query to a single day.
type SeatsFilter struct {
	Date         *time.Time
	Enterprise   string
	Organization string
	Team         string
}
