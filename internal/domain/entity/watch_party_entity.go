package entity

import "time"

// WatchParty groups users that watch something together.
// Immutable once created; Participants is never empty.
type WatchParty struct {
	ID           string
	Name         string
	Participants []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
