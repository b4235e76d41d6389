// Package loginflow keeps the short-lived state of a login form between rendering and submit.
package loginflow

import "time"

// State ties a rendered login form to its submission
type State struct {
	ReturnURL string // protected path that sent the browser to the login page
	CreatedAt time.Time
}

type Repo interface {
	Upsert(state string, flowState *State) error
	Consume(state string) (*State, error)
	Delete(state string) error
}
