package domain

import "errors"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrNotAuthenticated  = errors.New("authentication required")
	ErrNotAuthorized     = errors.New("admin privileges required")
	ErrAlreadyFollowing  = errors.New("already following this artist")
	ErrNotFollowing      = errors.New("not following this artist")
	ErrAlreadyMonitoring = errors.New("already monitoring this state")
	ErrNotMonitoring     = errors.New("not monitoring this state")
)

type EmailPreferences struct {
	SiteUpdates        bool `json:"siteUpdates"`
	ArtistUpdates      bool `json:"artistUpdates"`
	LocalSigningEvents bool `json:"localSigningEvents"`
}

type User struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Password         string           `json:"-"`
	Role             string           `json:"role"`
	EmailPreferences EmailPreferences `json:"emailPreferences"`
	FollowedArtists  []string         `json:"followedArtists"`
	MonitoredStates  []string         `json:"monitoredStates"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FollowsArtist(name string) bool {
	for _, followed := range u.FollowedArtists {
		if followed == name {
			return true
		}
	}
	return false
}
