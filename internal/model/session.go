package model

import "time"

// Session is the per-page-load state of one visitor. It lives in the session
// store with a TTL and is never written anywhere durable.
type Session struct {
	ID        string      `json:"id"`
	Debug     bool        `json:"debug"`
	Opened    bool        `json:"opened"`             // reveal gate fired
	Animated  []string    `json:"animated,omitempty"` // element ids the viewport animator already fired
	Wizard    WizardState `json:"wizard"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// HasAnimated reports whether the animator already fired for id
func (s *Session) HasAnimated(id string) bool {
	for _, a := range s.Animated {
		if a == id {
			return true
		}
	}
	return false
}
