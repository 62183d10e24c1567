package models

import "time"

// Report bundles a check and its traffic estimate for delivery
type Report struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Period      string           `json:"period"` // "daily" or "weekly"
	Brand       string           `json:"brand"`
	Check       *AICheckResult   `json:"check"`
	Traffic     *TrafficEstimate `json:"traffic,omitempty"`
}

// Alert represents an urgent notification
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "critical", "urgent", "info"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Brand     string    `json:"brand,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
