package models

import "time"

// TrendPeriod selects the bucket size for click trends.
type TrendPeriod string

const (
	PeriodDay   TrendPeriod = "day"
	PeriodWeek  TrendPeriod = "week"
	PeriodMonth TrendPeriod = "month"
)

// Valid reports whether the period is one of the supported bucket sizes.
func (p TrendPeriod) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// StatsFilter narrows aggregation queries. All fields are optional; the
// owning user id is always applied separately.
type StatsFilter struct {
	Alias string
	From  *time.Time
	To    *time.Time
}

// StatusCount is the number of a user's links in one status.
type StatusCount struct {
	Status LinkStatus `json:"status"`
	Count  int64      `json:"count"`
}

// Overview summarizes a user's links in one row.
type Overview struct {
	TotalLinks     int64 `json:"total_links"`
	TotalClicks    int64 `json:"total_clicks"`
	ProtectedLinks int64 `json:"protected_links"`
	LimitedLinks   int64 `json:"limited_links"`
}

// TrendPoint is one bucket of the click trend, labeled by period start.
type TrendPoint struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

// DimensionCount is a grouped click count over one dimension value
// (country, device or browser).
type DimensionCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}
