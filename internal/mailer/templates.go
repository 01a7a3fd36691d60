package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"artistconnection/internal/domain"
)

// fieldLabels maps artist field names to the human labels shown in digest
// emails. Unknown fields fall back to the raw name.
var fieldLabels = map[string]string{
	"name":                  "Artist Name",
	"email":                 "Email",
	"instagram":             "Instagram",
	"facebook":              "Facebook",
	"twitter":               "Twitter",
	"bluesky":               "Bluesky",
	"youtube":               "YouTube",
	"artstation":            "ArtStation",
	"patreon":               "Patreon",
	"location":              "Location",
	"url":                   "Website",
	"signing":               "Signing Status",
	"signingComment":        "Signing Comment",
	"haveSignature":         "Signature Example",
	"artistProofs":          "Artist Proofs",
	"filename":              "Image Filename",
	"mountainmage":          "MountainMage Service",
	"markssignatureservice": "Mark's Signature Service",
	"omalink":               "OMA Link",
	"inprnt":                "INPRNT Link",
	"alternate_names":       "Alternate Names",
	"scryfall_name":         "Scryfall Name",
}

func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

const emailShell = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: #507A60; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0; font-size: 24px;">MTG Artist Connection</h1>
    <p style="margin: 5px 0 0 0; font-size: 14px;">{{.Tagline}}</p>
  </div>
  <div style="background-color: #ffffff; padding: 20px; border-radius: 0 0 8px 8px;">
    {{.Body}}
  </div>
</body>
</html>`

var shellTmpl = template.Must(template.New("shell").Parse(emailShell))

func renderShell(tagline string, body template.HTML) (string, error) {
	var buf bytes.Buffer
	err := shellTmpl.Execute(&buf, struct {
		Tagline string
		Body    template.HTML
	}{tagline, body})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

type artistEventView struct {
	Name      string
	DateRange string
	Location  string
}

type artistSectionView struct {
	ArtistName    string
	UpdatedFields []string
	Events        []artistEventView
	ProfileURL    string
}

var artistDigestTmpl = template.Must(template.New("artistDigest").Parse(`
<p style="font-size: 16px; margin-top: 0; color: #555;">Here are today's updates for artists you follow:</p>
{{range .Sections}}
<div style="margin-bottom: 30px; border-bottom: 2px solid #507A60; padding-bottom: 20px;">
  <h2 style="color: #507A60; margin-bottom: 15px;">{{.ArtistName}}</h2>
  {{if .UpdatedFields}}
  <h3 style="color: #333; font-size: 16px;">Profile Updates</h3>
  <ul style="margin: 10px 0; padding-left: 20px;">
    {{range .UpdatedFields}}<li>Updated {{.}}</li>{{end}}
  </ul>
  {{end}}
  {{if .Events}}
  <h3 style="color: #333; font-size: 16px;">Upcoming Signing Events</h3>
  <ul style="margin: 10px 0; padding-left: 20px;">
    {{range .Events}}<li style="margin-bottom: 10px;"><strong>{{.Name}}</strong><br/>{{.DateRange}}<br/>Location: {{.Location}}</li>{{end}}
  </ul>
  {{end}}
  <p style="margin-top: 15px;"><a href="{{.ProfileURL}}" style="color: #507A60; font-weight: 600;">View {{.ArtistName}}'s Profile</a></p>
</div>
{{end}}
<p style="font-size: 12px; color: #999;">You're receiving this email because you follow these artists and have artist update emails enabled. <a href="{{.SettingsURL}}" style="color: #507A60;">Manage email preferences</a></p>
`))

func formatDateRange(section domain.ArtistChange) string {
	start := section.EventStartDate.Format("1/2/2006")
	end := section.EventEndDate.Format("1/2/2006")
	if start == end {
		return start
	}
	return start + " - " + end
}

// RenderArtistDigest builds the artist digest body. Field names are
// deduplicated across a section's update changes and resolved to labels.
func RenderArtistDigest(sections []domain.ArtistDigestSection, frontendURL string) (string, error) {
	views := make([]artistSectionView, 0, len(sections))
	for _, section := range sections {
		view := artistSectionView{
			ArtistName: section.ArtistName,
			ProfileURL: frontendURL + "/artist/" + template.URLQueryEscaper(section.ArtistName),
		}
		seen := map[string]bool{}
		for _, change := range section.Changes {
			switch change.Kind {
			case domain.ArtistChangeUpdate:
				for _, field := range change.FieldsChanged {
					if seen[field] {
						continue
					}
					seen[field] = true
					view.UpdatedFields = append(view.UpdatedFields, FieldLabel(field))
				}
			case domain.ArtistChangeAddedToEvent:
				view.Events = append(view.Events, artistEventView{
					Name:      change.EventName,
					DateRange: formatDateRange(change),
					Location:  change.EventLocation,
				})
			}
		}
		views = append(views, view)
	}

	var buf bytes.Buffer
	err := artistDigestTmpl.Execute(&buf, struct {
		Sections    []artistSectionView
		SettingsURL string
	}{views, frontendURL + "/settings"})
	if err != nil {
		return "", fmt.Errorf("failed to render artist digest: %w", err)
	}
	return renderShell("Your Daily Artist Updates", template.HTML(buf.String()))
}

type eventView struct {
	Name         string
	Place        string
	DateRange    string
	URL          string
	Artists      string
	ArtistsAdded string
	IsNew        bool
}

var eventDigestTmpl = template.Must(template.New("eventDigest").Parse(`
<p style="font-size: 16px; margin-top: 0; color: #555;">Signing event updates in your monitored states:</p>
{{range .Events}}
<div style="margin-bottom: 30px; border-bottom: 2px solid #507A60; padding-bottom: 20px;">
  <h2 style="color: #507A60; margin-bottom: 5px;">{{.Name}}{{if .IsNew}} <span style="font-size: 13px; color: #999;">(new event)</span>{{end}}</h2>
  <p style="margin: 5px 0;">{{.Place}}<br/>{{.DateRange}}</p>
  {{if .ArtistsAdded}}<p style="margin: 5px 0;"><strong>Newly added:</strong> {{.ArtistsAdded}}</p>{{end}}
  {{if .Artists}}<p style="margin: 5px 0;"><strong>Attending artists:</strong> {{.Artists}}</p>{{end}}
  {{if .URL}}<p style="margin: 5px 0;"><a href="{{.URL}}" style="color: #507A60;">Event details</a></p>{{end}}
</div>
{{end}}
<p style="font-size: 12px; color: #999;">You're receiving this email because you monitor these states for signing events. <a href="{{.SettingsURL}}" style="color: #507A60;">Manage email preferences</a></p>
`))

func RenderEventDigest(events []domain.EventData, frontendURL string) (string, error) {
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		start := e.StartDate.Format("1/2/2006")
		end := e.EndDate.Format("1/2/2006")
		dateRange := start
		if start != end {
			dateRange = start + " - " + end
		}
		views = append(views, eventView{
			Name:         e.EventName,
			Place:        e.City + ", " + e.State,
			DateRange:    dateRange,
			URL:          e.URL,
			Artists:      strings.Join(e.Artists, ", "),
			ArtistsAdded: strings.Join(e.ArtistsAdded, ", "),
			IsNew:        e.Kind == domain.EventChangeNewEvent,
		})
	}

	var buf bytes.Buffer
	err := eventDigestTmpl.Execute(&buf, struct {
		Events      []eventView
		SettingsURL string
	}{views, frontendURL + "/settings"})
	if err != nil {
		return "", fmt.Errorf("failed to render event digest: %w", err)
	}
	return renderShell("Local Signing Events", template.HTML(buf.String()))
}

var catalogReportTmpl = template.Must(template.New("catalogReport").Parse(`
<div style="background-color: #f8f9fa; padding: 15px; border-radius: 6px; margin-bottom: 20px;">
  <h3 style="margin: 0 0 10px 0; color: #507A60;">Summary</h3>
  <ul style="margin: 0; padding-left: 20px; color: #555;">
    <li>Scryfall artists: <strong>{{.CatalogTotal}}</strong></li>
    <li>Database artists: <strong>{{.LocalTotal}}</strong></li>
    <li>Auto-linked this run: <strong>{{.AutoLinked}}</strong></li>
    <li>Missing from database: <strong>{{len .MissingFromDB}}</strong></li>
    <li>Not linked remotely: <strong>{{len .NotLinkedRemotely}}</strong></li>
  </ul>
</div>
{{if .MissingFromDB}}
<h2 style="color: #507A60;">Artists Not Found in Database</h2>
<p style="color: #666; font-size: 14px;">These Scryfall names match no artist name or scryfall_name link. Set the scryfall_name field on existing artists where only the formatting differs.</p>
<ul style="font-size: 14px;">{{range .MissingFromDB}}<li>{{.}}</li>{{end}}</ul>
{{end}}
{{if .NotLinkedRemotely}}
<h2 style="color: #507A60;">Local Links Missing From Scryfall</h2>
<p style="color: #666; font-size: 14px;">These artists carry a scryfall_name that no longer appears in the Scryfall catalog.</p>
<ul style="font-size: 14px;">{{range .NotLinkedRemotely}}<li>{{.}}</li>{{end}}</ul>
{{end}}
<p style="font-size: 12px; color: #999;">This is an automated admin report from the Scryfall artist sync job.</p>
`))

func RenderCatalogDiffEmail(report domain.CatalogDiffReport) (string, error) {
	var buf bytes.Buffer
	if err := catalogReportTmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render catalog diff report: %w", err)
	}
	return renderShell("Scryfall Artist Sync Report", template.HTML(buf.String()))
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<p style="font-size: 16px; color: #555;">Welcome to MTG Artist Connection!</p>
<p style="color: #555;">Browse the artist directory, follow the artists whose work you collect, and monitor your state for signing events. We'll email you a daily digest whenever something changes.</p>
<p style="color: #555;"><a href="https://mtgartistconnection.com" style="color: #507A60; font-weight: 600;">Visit MTG Artist Connection</a></p>
`))

func RenderWelcomeEmail() (string, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, nil); err != nil {
		return "", fmt.Errorf("failed to render welcome email: %w", err)
	}
	return renderShell("Welcome!", template.HTML(buf.String()))
}
