// Package analytics defines the interfaces and types for accessing
// analytics data.
package analytics

import (
	"errors"
	"time"
)

// ErrUnknownPopup is returned when an event references a popup that does not
// exist.
var ErrUnknownPopup = errors.New("unknown popup")

// ErrInvalidEventType is returned when a submission carries an event type
// outside the recordable kinds.
var ErrInvalidEventType = errors.New("invalid event type")

// EventType discriminates recorded interactions.
type EventType string

const (
	EventImpression EventType = "impression"
	EventConversion EventType = "conversion"
)

// IsValid reports whether the event type is one of the recordable kinds.
func (t EventType) IsValid() bool {
	return t == EventImpression || t == EventConversion
}

// Event is one immutable, append-only interaction record.
type Event struct {
	ID           string    `json:"id"`
	PopupID      string    `json:"popupId"`
	EventType    EventType `json:"eventType"`
	CreatedAt    time.Time `json:"createdAt"`
	AnonymizedIP string    `json:"anonymizedIp,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"` // truncated to browser/OS
	Referrer     string    `json:"referrer,omitempty"`
}

// DailyCount is one day bucket in a report series. Date is formatted
// YYYY-MM-DD in the configured reporting timezone.
type DailyCount struct {
	Date        string  `json:"date"`
	Impressions int     `json:"impressions"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
}

// PopupReport aggregates one popup over the report range.
type PopupReport struct {
	PopupID     string       `json:"popupId"`
	Impressions int          `json:"impressions"`
	Conversions int          `json:"conversions"`
	Rate        float64      `json:"rate"`
	Series      []DailyCount `json:"series"`
}

// Report is the full aggregation result for a date range.
type Report struct {
	StartDate   string                  `json:"startDate"`
	EndDate     string                  `json:"endDate"`
	Impressions int                     `json:"impressions"`
	Conversions int                     `json:"conversions"`
	Rate        float64                 `json:"rate"`
	Series      []DailyCount            `json:"series"`
	Popups      map[string]*PopupReport `json:"popups"`
}

// EventRepository defines the contract for storing and retrieving analytics
// events.
type EventRepository interface {
	// StoreEvent appends one immutable event row.
	StoreEvent(event *Event) error

	// FindEventsInRange retrieves all events within [start, end), optionally
	// restricted to one popup (empty popupID means all popups).
	FindEventsInRange(popupID string, start, end time.Time) ([]*Event, error)

	// PurgeEventsBefore removes events older than the cutoff and reports how
	// many rows were deleted. Used by the retention worker.
	PurgeEventsBefore(cutoff time.Time) (int64, error)

	// DeleteAllEvents clears the event store. Backs the explicit
	// clear-analytics admin action.
	DeleteAllEvents() (int64, error)
}
