package model

import "time"

// Note is a free-form memo with no booking semantics attached.
type Note struct {
	ID        string
	Title     string
	CreatedAt time.Time
}
