package entity

import (
	"slices"
	"time"
)

// Preferences are the content flags picked at signup.
type Preferences struct {
	Movies bool `json:"movies"`
	Series bool `json:"series"`
	Both   bool `json:"both"`
}

// Quiz holds the optional "what kind of watcher are you" answers.
type Quiz struct {
	Genres         []string
	Character      string
	PlotTwist      string
	WatchFrequency int
	Popcorn        string
	Soundtrack     string
}

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field.
//
// Friends and WatchParties are reference sets of ids. Friends is kept
// symmetric by the social service, WatchParties mirrors WatchParty.Participants.
type User struct {
	ID           string
	Name         string
	Username     string // optional, unique when set
	Email        string
	Password     string
	DOB          *time.Time
	Gender       string
	Bio          string
	Avatar       string
	Preferences  Preferences
	Quiz         Quiz
	Friends      []string
	WatchParties []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) HasFriend(id string) bool {
	return slices.Contains(u.Friends, id)
}

// PublicProfile is the projection of a user that is safe to hand to other users.
type PublicProfile struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{Name: u.Name, Username: u.Username, Email: u.Email, Avatar: u.Avatar}
}
