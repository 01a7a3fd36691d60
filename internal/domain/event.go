package domain

import (
	"errors"
	"time"
)

var (
	ErrEventNotFound = errors.New("signing event not found")
	ErrEventExists   = errors.New("signing event already exists")
	ErrMappingExists = errors.New("artist already exists in event")
)

type SigningEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	State     string    `json:"state,omitempty"` // empty for untagged events
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	URL       string    `json:"url,omitempty"`
}

// Location composes the human-readable place string used in digest emails.
func (e *SigningEvent) Location() string {
	if e.State == "" {
		return e.City
	}
	return e.City + ", " + e.State
}

type MapArtistToEvent struct {
	ID         string `json:"id"`
	ArtistName string `json:"artistName"`
	EventID    string `json:"eventId"`
}
