// internal/session/types.go
package session

import (
	"time"
)

// Session is one visitor's browsing interaction window. It is created and
// mutated by the tracking layer; this engine only ever reads it.
type Session struct {
	ID        string `json:"id"`
	VisitorID string `json:"visitor_id,omitempty"`

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	// Duration is the session length in milliseconds.
	Duration int64 `json:"duration"`

	PagesViewed int `json:"pages_viewed"`
	Clicks      int `json:"clicks"`
	// ScrollDepth is the maximum scroll depth reached, 0-100.
	ScrollDepth float64    `json:"scroll_depth"`
	TimeOnPage  []PageTime `json:"time_on_page,omitempty"`

	PageJourney []PageVisit   `json:"page_journey,omitempty"`
	Source      TrafficSource `json:"source"`
	Device      DeviceInfo    `json:"device"`

	Converted       bool    `json:"converted"`
	ConversionValue float64 `json:"conversion_value,omitempty"`
}

// PageTime records how long a single page was on screen.
type PageTime struct {
	Path string `json:"path"`
	// Duration in milliseconds.
	Duration int64 `json:"duration"`
}

// PageVisit is one ordered entry in the session's page journey.
type PageVisit struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	// TimeSpent in milliseconds.
	TimeSpent    int64 `json:"time_spent"`
	Interactions int   `json:"interactions"`
}

// TrafficSource describes where the visitor came from.
type TrafficSource struct {
	Referrer string `json:"referrer,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Medium   string `json:"medium,omitempty"`
}

// DeviceInfo describes the visitor's device.
type DeviceInfo struct {
	IsMobile bool   `json:"is_mobile"`
	IsTablet bool   `json:"is_tablet"`
	OS       string `json:"os,omitempty"`
}

// DailyCount is one time-bucketed visit count, used by the forecast engine.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}
