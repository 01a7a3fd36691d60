package graph

import (
	"time"

	"github.com/graphql-go/graphql"

	"artistconnection/internal/domain"
)

func timeField(extract func(interface{}) (time.Time, bool)) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if t, ok := extract(p.Source); ok {
				return t.Format(time.RFC3339), nil
			}
			return nil, nil
		},
	}
}

var artistType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ArtistType",
	Fields: graphql.Fields{
		"id":                    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":                  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":                 &graphql.Field{Type: graphql.String},
		"artistProofs":          &graphql.Field{Type: graphql.String},
		"facebook":              &graphql.Field{Type: graphql.String},
		"haveSignature":         &graphql.Field{Type: graphql.String},
		"instagram":             &graphql.Field{Type: graphql.String},
		"patreon":               &graphql.Field{Type: graphql.String},
		"signing":               &graphql.Field{Type: graphql.String},
		"signingComment":        &graphql.Field{Type: graphql.String},
		"twitter":               &graphql.Field{Type: graphql.String},
		"url":                   &graphql.Field{Type: graphql.String},
		"youtube":               &graphql.Field{Type: graphql.String},
		"mountainmage":          &graphql.Field{Type: graphql.String},
		"markssignatureservice": &graphql.Field{Type: graphql.String},
		"filename":              &graphql.Field{Type: graphql.String},
		"artstation":            &graphql.Field{Type: graphql.String},
		"location":              &graphql.Field{Type: graphql.String},
		"bluesky":               &graphql.Field{Type: graphql.String},
		"omalink":               &graphql.Field{Type: graphql.String},
		"inprnt":                &graphql.Field{Type: graphql.String},
		"alternate_names":       &graphql.Field{Type: graphql.String},
		"scryfall_name":         &graphql.Field{Type: graphql.String},
	},
})

var emailPreferencesType = graphql.NewObject(graphql.ObjectConfig{
	Name: "EmailPreferencesType",
	Fields: graphql.Fields{
		"siteUpdates":        &graphql.Field{Type: graphql.Boolean},
		"artistUpdates":      &graphql.Field{Type: graphql.Boolean},
		"localSigningEvents": &graphql.Field{Type: graphql.Boolean},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UserType",
	Fields: graphql.Fields{
		"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":             &graphql.Field{Type: graphql.String},
		"emailPreferences": &graphql.Field{Type: emailPreferencesType},
		"followedArtists":  &graphql.Field{Type: graphql.NewList(graphql.String)},
		"monitoredStates":  &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var authResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthResponseType",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user":  &graphql.Field{Type: userType},
	},
})

var mutationResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MutationResponseType",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"message": &graphql.Field{Type: graphql.String},
	},
})

type mutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var signingEventType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SigningEventType",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"city":  &graphql.Field{Type: graphql.String},
		"state": &graphql.Field{Type: graphql.String},
		"startDate": timeField(func(src interface{}) (time.Time, bool) {
			if e, ok := src.(domain.SigningEvent); ok {
				return e.StartDate, true
			}
			if e, ok := src.(*domain.SigningEvent); ok {
				return e.StartDate, true
			}
			return time.Time{}, false
		}),
		"endDate": timeField(func(src interface{}) (time.Time, bool) {
			if e, ok := src.(domain.SigningEvent); ok {
				return e.EndDate, true
			}
			if e, ok := src.(*domain.SigningEvent); ok {
				return e.EndDate, true
			}
			return time.Time{}, false
		}),
		"url": &graphql.Field{Type: graphql.String},
	},
})

var mapArtistToEventType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MapArtistToEventType",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"artistName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"eventId":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var cardPriceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CardPriceType",
	Fields: graphql.Fields{
		"id":                         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":                       &graphql.Field{Type: graphql.String},
		"set_code":                   &graphql.Field{Type: graphql.String},
		"number":                     &graphql.Field{Type: graphql.String},
		"multiverse_id":              &graphql.Field{Type: graphql.String},
		"scryfall_id":                &graphql.Field{Type: graphql.String},
		"available_quantity":         &graphql.Field{Type: graphql.Int},
		"price_cents":                &graphql.Field{Type: graphql.Int},
		"price_cents_lp_plus":        &graphql.Field{Type: graphql.Int},
		"price_cents_nm":             &graphql.Field{Type: graphql.Int},
		"price_cents_foil":           &graphql.Field{Type: graphql.Int},
		"price_cents_lp_plus_foil":   &graphql.Field{Type: graphql.Int},
		"price_cents_nm_foil":        &graphql.Field{Type: graphql.Int},
		"price_cents_etched":         &graphql.Field{Type: graphql.Int},
		"price_cents_lp_plus_etched": &graphql.Field{Type: graphql.Int},
		"price_cents_nm_etched":      &graphql.Field{Type: graphql.Int},
		"price_market":               &graphql.Field{Type: graphql.Int},
		"price_market_foil":          &graphql.Field{Type: graphql.Int},
		"url":                        &graphql.Field{Type: graphql.String},
		"fetchedAt": timeField(func(src interface{}) (time.Time, bool) {
			if p, ok := src.(domain.CardPrice); ok {
				return p.FetchedAt, true
			}
			return time.Time{}, false
		}),
	},
})

var cardKingdomPriceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CardKingdomPriceType",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.String},
		"edition":     &graphql.Field{Type: graphql.String},
		"condition":   &graphql.Field{Type: graphql.String},
		"language":    &graphql.Field{Type: graphql.String},
		"foil":        &graphql.Field{Type: graphql.Boolean},
		"signed":      &graphql.Field{Type: graphql.Boolean},
		"artistProof": &graphql.Field{Type: graphql.Boolean},
		"alteredArt":  &graphql.Field{Type: graphql.Boolean},
		"misprint":    &graphql.Field{Type: graphql.Boolean},
		"promo":       &graphql.Field{Type: graphql.Boolean},
		"textless":    &graphql.Field{Type: graphql.Boolean},
		"printingId":  &graphql.Field{Type: graphql.Int},
		"ckId":        &graphql.Field{Type: graphql.Int},
		"scryfallId":  &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Int},
		"url":         &graphql.Field{Type: graphql.String},
		"fetchedAt": timeField(func(src interface{}) (time.Time, bool) {
			if p, ok := src.(domain.CardKingdomPrice); ok {
				return p.FetchedAt, true
			}
			return time.Time{}, false
		}),
	},
})

var cardLookupInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CardLookupInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"set_code": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"number":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})
