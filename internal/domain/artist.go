package domain

import (
	"errors"
	"time"
)

const maxArtistNameLength = 200

// ScryfallNameUnknown marks artists confirmed to have no Scryfall catalog
// entry. It is excluded from catalog reconciliation.
const ScryfallNameUnknown = "unknown"

var (
	ErrArtistNotFound     = errors.New("artist not found")
	ErrArtistExists       = errors.New("artist already exists")
	ErrInvalidArtistName  = errors.New("invalid artist name")
	ErrInvalidArtistField = errors.New("unknown artist field")
)

type Artist struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email,omitempty"`
	ArtistProofs          string    `json:"artistProofs,omitempty"`
	Facebook              string    `json:"facebook,omitempty"`
	HaveSignature         string    `json:"haveSignature,omitempty"`
	Instagram             string    `json:"instagram,omitempty"`
	Patreon               string    `json:"patreon,omitempty"`
	Signing               string    `json:"signing,omitempty"`
	SigningComment        string    `json:"signingComment,omitempty"`
	Twitter               string    `json:"twitter,omitempty"`
	URL                   string    `json:"url,omitempty"`
	Youtube               string    `json:"youtube,omitempty"`
	Mountainmage          string    `json:"mountainmage,omitempty"`
	MarksSignatureService string    `json:"markssignatureservice,omitempty"`
	Filename              string    `json:"filename,omitempty"`
	Artstation            string    `json:"artstation,omitempty"`
	Location              string    `json:"location,omitempty"`
	Bluesky               string    `json:"bluesky,omitempty"`
	OmaLink               string    `json:"omalink,omitempty"`
	Inprnt                string    `json:"inprnt,omitempty"`
	AlternateNames        string    `json:"alternate_names,omitempty"`
	ScryfallName          string    `json:"scryfall_name,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ArtistUpdate carries the updatable artist fields; nil means "leave as is".
type ArtistUpdate struct {
	Name                  *string
	Email                 *string
	ArtistProofs          *string
	Facebook              *string
	HaveSignature         *string
	Instagram             *string
	Patreon               *string
	Signing               *string
	SigningComment        *string
	Twitter               *string
	URL                   *string
	Youtube               *string
	Mountainmage          *string
	MarksSignatureService *string
	Filename              *string
	Artstation            *string
	Location              *string
	Bluesky               *string
	OmaLink               *string
	Inprnt                *string
	AlternateNames        *string
	ScryfallName          *string
}

type artistFieldEntry struct {
	name string
	val  *string
	dst  *string
}

func (u ArtistUpdate) entries(a *Artist) []artistFieldEntry {
	return []artistFieldEntry{
		{"name", u.Name, &a.Name},
		{"email", u.Email, &a.Email},
		{"artistProofs", u.ArtistProofs, &a.ArtistProofs},
		{"facebook", u.Facebook, &a.Facebook},
		{"haveSignature", u.HaveSignature, &a.HaveSignature},
		{"instagram", u.Instagram, &a.Instagram},
		{"patreon", u.Patreon, &a.Patreon},
		{"signing", u.Signing, &a.Signing},
		{"signingComment", u.SigningComment, &a.SigningComment},
		{"twitter", u.Twitter, &a.Twitter},
		{"url", u.URL, &a.URL},
		{"youtube", u.Youtube, &a.Youtube},
		{"mountainmage", u.Mountainmage, &a.Mountainmage},
		{"markssignatureservice", u.MarksSignatureService, &a.MarksSignatureService},
		{"filename", u.Filename, &a.Filename},
		{"artstation", u.Artstation, &a.Artstation},
		{"location", u.Location, &a.Location},
		{"bluesky", u.Bluesky, &a.Bluesky},
		{"omalink", u.OmaLink, &a.OmaLink},
		{"inprnt", u.Inprnt, &a.Inprnt},
		{"alternate_names", u.AlternateNames, &a.AlternateNames},
		{"scryfall_name", u.ScryfallName, &a.ScryfallName},
	}
}

// ApplyUpdate writes the non-nil fields of u onto a and returns the names of
// fields whose value actually changed, in declaration order.
func ApplyUpdate(a *Artist, u ArtistUpdate) []string {
	var changed []string
	for _, e := range u.entries(a) {
		if e.val == nil {
			continue
		}
		if *e.dst != *e.val {
			changed = append(changed, e.name)
		}
		*e.dst = *e.val
	}
	return changed
}

// UpdateForField builds an ArtistUpdate setting a single field by name.
func UpdateForField(field, value string) (ArtistUpdate, error) {
	var u ArtistUpdate
	switch field {
	case "name":
		u.Name = &value
	case "email":
		u.Email = &value
	case "artistProofs":
		u.ArtistProofs = &value
	case "facebook":
		u.Facebook = &value
	case "haveSignature":
		u.HaveSignature = &value
	case "instagram":
		u.Instagram = &value
	case "patreon":
		u.Patreon = &value
	case "signing":
		u.Signing = &value
	case "signingComment":
		u.SigningComment = &value
	case "twitter":
		u.Twitter = &value
	case "url":
		u.URL = &value
	case "youtube":
		u.Youtube = &value
	case "mountainmage":
		u.Mountainmage = &value
	case "markssignatureservice":
		u.MarksSignatureService = &value
	case "filename":
		u.Filename = &value
	case "artstation":
		u.Artstation = &value
	case "location":
		u.Location = &value
	case "bluesky":
		u.Bluesky = &value
	case "omalink":
		u.OmaLink = &value
	case "inprnt":
		u.Inprnt = &value
	case "alternate_names":
		u.AlternateNames = &value
	case "scryfall_name":
		u.ScryfallName = &value
	default:
		return u, ErrInvalidArtistField
	}
	return u, nil
}

func ValidateArtistName(name string) error {
	if name == "" || len(name) > maxArtistNameLength {
		return ErrInvalidArtistName
	}
	return nil
}

// ArtistNameLink is the projection the catalog diff job works on.
type ArtistNameLink struct {
	ID           string
	Name         string
	ScryfallName string
}
