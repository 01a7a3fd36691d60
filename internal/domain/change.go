package domain

import "time"

// Change kinds for ArtistChange
const (
	ArtistChangeUpdate       = "update"
	ArtistChangeAddedToEvent = "added_to_event"
)

// Change kinds for EventChange
const (
	EventChangeNewEvent    = "new_event"
	EventChangeArtistAdded = "artist_added"
)

// ArtistChange is an append-only record of a mutation relevant to artist
// followers. Only Processed/ProcessedAt are ever mutated, exactly once, by
// the artist digest run.
type ArtistChange struct {
	ID         string    `json:"id"`
	ArtistName string    `json:"artistName"`
	Kind       string    `json:"changeType"`
	Timestamp  time.Time `json:"timestamp"`

	// Kind == ArtistChangeUpdate
	FieldsChanged []string `json:"fieldsChanged,omitempty"`

	// Kind == ArtistChangeAddedToEvent
	EventID        string    `json:"eventId,omitempty"`
	EventName      string    `json:"eventName,omitempty"`
	EventStartDate time.Time `json:"eventStartDate,omitempty"`
	EventEndDate   time.Time `json:"eventEndDate,omitempty"`
	EventLocation  string    `json:"eventLocation,omitempty"`

	Processed   bool       `json:"processed"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

// EventChange is an append-only record of a mutation relevant to
// region-monitoring users. Changes with an empty State never digest.
type EventChange struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	EventName string    `json:"eventName"`
	City      string    `json:"city"`
	State     string    `json:"state,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	URL       string    `json:"url,omitempty"`
	Kind      string    `json:"changeType"`

	// Kind == EventChangeArtistAdded
	ArtistName string `json:"artistName,omitempty"`

	Timestamp   time.Time  `json:"timestamp"`
	Processed   bool       `json:"processed"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}
