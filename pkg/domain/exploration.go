package domain

import (
	"slices"
	"time"
)

// StartResult is the topic service answer to StartSession.
type StartResult struct {
	SessionID string   `json:"session_id"`
	Menu      []string `json:"menu"`
}

// Exploration is the record a topic service keeps for every session it issued.
// Path holds the raw labels selected so far, in order.
type Exploration struct {
	SessionID string    `json:"session_id"`
	Topic     string    `json:"topic"`
	Path      []string  `json:"path"`
	Menu      []string  `json:"menu"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the record.
func (e *Exploration) Clone() *Exploration {
	if e == nil {
		return nil
	}
	c := *e
	c.Path = slices.Clone(e.Path)
	c.Menu = slices.Clone(e.Menu)
	return &c
}
