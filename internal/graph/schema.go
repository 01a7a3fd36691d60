package graph

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"

	"artistconnection/internal/domain"
	"artistconnection/internal/service"
)

// Resolver bundles the services the GraphQL schema resolves against.
type Resolver struct {
	Auth    *service.AuthService
	Artists *service.ArtistService
	Users   *service.UserService
	Events  *service.EventService
	Prices  *service.PriceService
}

func strArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func strPtrArg(args map[string]interface{}, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func strListArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// respond maps domain sentinel errors onto the success/message payload the
// frontend expects; unexpected errors propagate as GraphQL errors.
func respond(err error, okMessage string) (interface{}, error) {
	if err == nil {
		return mutationResponse{Success: true, Message: okMessage}, nil
	}
	for _, sentinel := range []error{
		domain.ErrUserNotFound,
		domain.ErrArtistNotFound,
		domain.ErrIncorrectPassword,
		domain.ErrAlreadyFollowing,
		domain.ErrNotFollowing,
		domain.ErrAlreadyMonitoring,
		domain.ErrNotMonitoring,
	} {
		if errors.Is(err, sentinel) {
			return mutationResponse{Success: false, Message: sentinel.Error()}, nil
		}
	}
	return nil, err
}

var artistMutationArgs = graphql.FieldConfigArgument{
	"name":                  &graphql.ArgumentConfig{Type: graphql.String},
	"email":                 &graphql.ArgumentConfig{Type: graphql.String},
	"artistProofs":          &graphql.ArgumentConfig{Type: graphql.String},
	"facebook":              &graphql.ArgumentConfig{Type: graphql.String},
	"haveSignature":         &graphql.ArgumentConfig{Type: graphql.String},
	"instagram":             &graphql.ArgumentConfig{Type: graphql.String},
	"patreon":               &graphql.ArgumentConfig{Type: graphql.String},
	"signing":               &graphql.ArgumentConfig{Type: graphql.String},
	"signingComment":        &graphql.ArgumentConfig{Type: graphql.String},
	"twitter":               &graphql.ArgumentConfig{Type: graphql.String},
	"url":                   &graphql.ArgumentConfig{Type: graphql.String},
	"youtube":               &graphql.ArgumentConfig{Type: graphql.String},
	"mountainmage":          &graphql.ArgumentConfig{Type: graphql.String},
	"markssignatureservice": &graphql.ArgumentConfig{Type: graphql.String},
	"filename":              &graphql.ArgumentConfig{Type: graphql.String},
	"artstation":            &graphql.ArgumentConfig{Type: graphql.String},
	"location":              &graphql.ArgumentConfig{Type: graphql.String},
	"bluesky":               &graphql.ArgumentConfig{Type: graphql.String},
	"omalink":               &graphql.ArgumentConfig{Type: graphql.String},
	"inprnt":                &graphql.ArgumentConfig{Type: graphql.String},
	"alternate_names":       &graphql.ArgumentConfig{Type: graphql.String},
	"scryfall_name":         &graphql.ArgumentConfig{Type: graphql.String},
}

func artistUpdateFromArgs(args map[string]interface{}) domain.ArtistUpdate {
	return domain.ArtistUpdate{
		Name:                  strPtrArg(args, "name"),
		Email:                 strPtrArg(args, "email"),
		ArtistProofs:          strPtrArg(args, "artistProofs"),
		Facebook:              strPtrArg(args, "facebook"),
		HaveSignature:         strPtrArg(args, "haveSignature"),
		Instagram:             strPtrArg(args, "instagram"),
		Patreon:               strPtrArg(args, "patreon"),
		Signing:               strPtrArg(args, "signing"),
		SigningComment:        strPtrArg(args, "signingComment"),
		Twitter:               strPtrArg(args, "twitter"),
		URL:                   strPtrArg(args, "url"),
		Youtube:               strPtrArg(args, "youtube"),
		Mountainmage:          strPtrArg(args, "mountainmage"),
		MarksSignatureService: strPtrArg(args, "markssignatureservice"),
		Filename:              strPtrArg(args, "filename"),
		Artstation:            strPtrArg(args, "artstation"),
		Location:              strPtrArg(args, "location"),
		Bluesky:               strPtrArg(args, "bluesky"),
		OmaLink:               strPtrArg(args, "omalink"),
		Inprnt:                strPtrArg(args, "inprnt"),
		AlternateNames:        strPtrArg(args, "alternate_names"),
		ScryfallName:          strPtrArg(args, "scryfall_name"),
	}
}

func artistFromArgs(args map[string]interface{}) domain.Artist {
	return domain.Artist{
		Name:                  strArg(args, "name"),
		Email:                 strArg(args, "email"),
		ArtistProofs:          strArg(args, "artistProofs"),
		Facebook:              strArg(args, "facebook"),
		HaveSignature:         strArg(args, "haveSignature"),
		Instagram:             strArg(args, "instagram"),
		Patreon:               strArg(args, "patreon"),
		Signing:               strArg(args, "signing"),
		SigningComment:        strArg(args, "signingComment"),
		Twitter:               strArg(args, "twitter"),
		URL:                   strArg(args, "url"),
		Youtube:               strArg(args, "youtube"),
		Mountainmage:          strArg(args, "mountainmage"),
		MarksSignatureService: strArg(args, "markssignatureservice"),
		Filename:              strArg(args, "filename"),
		Artstation:            strArg(args, "artstation"),
		Location:              strArg(args, "location"),
		Bluesky:               strArg(args, "bluesky"),
		OmaLink:               strArg(args, "omalink"),
		Inprnt:                strArg(args, "inprnt"),
		AlternateNames:        strArg(args, "alternate_names"),
		ScryfallName:          strArg(args, "scryfall_name"),
	}
}

// NewSchema builds the full query/mutation schema served at /graphql.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"artists": &graphql.Field{
				Type: graphql.NewList(artistType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Artists.ListArtists(p.Context)
				},
			},
			"artistByName": &graphql.Field{
				Type: artistType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Artists.GetArtistByName(p.Context, strArg(p.Args, "name"))
				},
			},
			"artistById": &graphql.Field{
				Type: artistType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Artists.GetArtistByID(p.Context, strArg(p.Args, "id"))
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Users.ListUsers(p.Context)
				},
			},
			"signingEvent": &graphql.Field{
				Type: graphql.NewList(signingEventType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Events.ListEvents(p.Context)
				},
			},
			"mapArtistToEvent": &graphql.Field{
				Type: graphql.NewList(mapArtistToEventType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Events.ListMappings(p.Context)
				},
			},
			"mapArtistToEventByEventId": &graphql.Field{
				Type: graphql.NewList(mapArtistToEventType),
				Args: graphql.FieldConfigArgument{
					"eventId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Events.MappingsByEventID(p.Context, strArg(p.Args, "eventId"))
				},
			},
			"cardPricesByCards": &graphql.Field{
				Type: graphql.NewList(cardPriceType),
				Args: graphql.FieldConfigArgument{
					"cards": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(cardLookupInput))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["cards"].([]interface{})
					lookups := make([]domain.CardLookup, 0, len(raw))
					for _, v := range raw {
						card, ok := v.(map[string]interface{})
						if !ok {
							continue
						}
						lookups = append(lookups, domain.CardLookup{
							SetCode: strArg(card, "set_code"),
							Number:  strArg(card, "number"),
						})
					}
					return r.Prices.CardPricesByCards(p.Context, lookups)
				},
			},
			"cardKingdomPricesByNames": &graphql.Field{
				Type: graphql.NewList(cardKingdomPriceType),
				Args: graphql.FieldConfigArgument{
					"names": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Prices.CardKingdomPricesByNames(p.Context, strListArg(p.Args, "names"))
				},
			},
			"cardKingdomPricesByScryfallIds": &graphql.Field{
				Type: graphql.NewList(cardKingdomPriceType),
				Args: graphql.FieldConfigArgument{
					"scryfallIds": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Prices.CardKingdomPricesByScryfallIDs(p.Context, strListArg(p.Args, "scryfallIds"))
				},
			},
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.Users.GetUser(p.Context, userID(p.Context))
				},
			},
		},
	})

	mutations := graphql.NewObject(graphql.ObjectConfig{
		Name: "mutations",
		Fields: graphql.Fields{
			"signup": &graphql.Field{
				Type: authResponseType,
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Auth.Signup(p.Context, strArg(p.Args, "name"), strArg(p.Args, "email"), strArg(p.Args, "password"))
				},
			},
			"login": &graphql.Field{
				Type: authResponseType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Auth.Login(p.Context, strArg(p.Args, "email"), strArg(p.Args, "password"))
				},
			},
			"addArtist": &graphql.Field{
				Type: artistType,
				Args: withRequiredName(artistMutationArgs),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					artist := artistFromArgs(p.Args)
					return r.Artists.CreateArtist(p.Context, &artist, userID(p.Context))
				},
			},
			"deleteArtist": &graphql.Field{
				Type: artistType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Artists.DeleteArtist(p.Context, strArg(p.Args, "id"), userID(p.Context))
				},
			},
			"deleteAllArtists": &graphql.Field{
				Type: graphql.NewList(artistType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Artists.DeleteAllArtists(p.Context, userID(p.Context))
				},
			},
			"updateArtist": &graphql.Field{
				Type: artistType,
				Args: graphql.FieldConfigArgument{
					"id":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"fieldName":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"valueToSet": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Artists.UpdateArtistField(p.Context,
						strArg(p.Args, "id"), strArg(p.Args, "fieldName"), strArg(p.Args, "valueToSet"), userID(p.Context))
				},
			},
			"updateArtistBulk": &graphql.Field{
				Type: artistType,
				Args: withRequiredID(artistMutationArgs),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Artists.UpdateArtistBulk(p.Context,
						strArg(p.Args, "id"), artistUpdateFromArgs(p.Args), userID(p.Context))
				},
			},
			"signingEvent": &graphql.Field{
				Type: signingEventType,
				Args: graphql.FieldConfigArgument{
					"name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"city":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"state":     &graphql.ArgumentConfig{Type: graphql.String},
					"startDate": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"endDate":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"url":       &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					start, err := parseDate(strArg(p.Args, "startDate"))
					if err != nil {
						return nil, err
					}
					end, err := parseDate(strArg(p.Args, "endDate"))
					if err != nil {
						return nil, err
					}
					event := domain.SigningEvent{
						Name:      strArg(p.Args, "name"),
						City:      strArg(p.Args, "city"),
						State:     strArg(p.Args, "state"),
						StartDate: start,
						EndDate:   end,
						URL:       strArg(p.Args, "url"),
					}
					return r.Events.CreateEvent(p.Context, &event, userID(p.Context))
				},
			},
			"mapArtistToEvent": &graphql.Field{
				Type: mapArtistToEventType,
				Args: graphql.FieldConfigArgument{
					"artistName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"eventId":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAdmin(p.Context); err != nil {
						return nil, err
					}
					return r.Events.MapArtistToEvent(p.Context,
						strArg(p.Args, "artistName"), strArg(p.Args, "eventId"), userID(p.Context))
				},
			},
			"updatePassword": &graphql.Field{
				Type: mutationResponseType,
				Args: graphql.FieldConfigArgument{
					"currentPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"newPassword":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					err := r.Auth.UpdatePassword(p.Context, userID(p.Context),
						strArg(p.Args, "currentPassword"), strArg(p.Args, "newPassword"))
					return respond(err, "Password updated successfully")
				},
			},
			"updateEmailPreferences": &graphql.Field{
				Type: mutationResponseType,
				Args: graphql.FieldConfigArgument{
					"siteUpdates":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
					"artistUpdates":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
					"localSigningEvents": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					prefs := domain.EmailPreferences{
						SiteUpdates:        boolArg(p.Args, "siteUpdates"),
						ArtistUpdates:      boolArg(p.Args, "artistUpdates"),
						LocalSigningEvents: boolArg(p.Args, "localSigningEvents"),
					}
					err := r.Users.UpdateEmailPreferences(p.Context, userID(p.Context), prefs)
					return respond(err, "Email preferences updated successfully")
				},
			},
			"followArtist": &graphql.Field{
				Type: mutationResponseType,
				Args: graphql.FieldConfigArgument{
					"artistName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					err := r.Users.FollowArtist(p.Context, userID(p.Context), strArg(p.Args, "artistName"))
					return respond(err, "Successfully followed artist")
				},
			},
			"unfollowArtist": &graphql.Field{
				Type: mutationResponseType,
				Args: graphql.FieldConfigArgument{
					"artistName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					err := r.Users.UnfollowArtist(p.Context, userID(p.Context), strArg(p.Args, "artistName"))
					return respond(err, "Successfully unfollowed artist")
				},
			},
			"monitorState": &graphql.Field{
				Type: mutationResponseType,
				Args: graphql.FieldConfigArgument{
					"state": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					err := r.Users.MonitorState(p.Context, userID(p.Context), strArg(p.Args, "state"))
					return respond(err, "Successfully added state to monitoring")
				},
			},
			"unmonitorState": &graphql.Field{
				Type: mutationResponseType,
				Args: graphql.FieldConfigArgument{
					"state": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					err := r.Users.UnmonitorState(p.Context, userID(p.Context), strArg(p.Args, "state"))
					return respond(err, "Successfully removed state from monitoring")
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery,
		Mutation: mutations,
	})
}

func boolArg(args map[string]interface{}, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// withRequiredName clones the shared artist args making name non-null.
func withRequiredName(base graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	out := graphql.FieldConfigArgument{}
	for k, v := range base {
		out[k] = v
	}
	out["name"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	return out
}

// withRequiredID clones the shared artist args adding a non-null id.
func withRequiredID(base graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	out := graphql.FieldConfigArgument{}
	for k, v := range base {
		out[k] = v
	}
	out["id"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
	return out
}
