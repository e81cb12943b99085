package rtm

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vedran77/pulse-mirror/internal/repository"
)

// Status is a point-in-time summary of a session, safe to read from any
// goroutine.
type Status struct {
	Session   uuid.UUID         `json:"session"`
	UserID    string            `json:"user_id"`
	TeamID    string            `json:"team_id"`
	Counts    repository.Counts `json:"counts"`
	Applied   uint64            `json:"applied"`
	Rejected  uint64            `json:"rejected"`
	LastEvent time.Time         `json:"last_event,omitzero"`
}

type statusBox struct {
	p atomic.Pointer[Status]
}

func (b *statusBox) load() Status {
	if s := b.p.Load(); s != nil {
		return *s
	}
	return Status{}
}

// update copies the current status, applies fn and publishes the result.
// Only the session goroutine writes.
func (b *statusBox) update(fn func(*Status)) {
	next := b.load()
	fn(&next)
	b.p.Store(&next)
}
