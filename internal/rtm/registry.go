package rtm

import (
	"maps"
	"slices"

	"github.com/vedran77/pulse-mirror/internal/repository"
)

// Identity is the locally authenticated account of a session.
type Identity struct {
	UserID string
	TeamID string
}

// PlainHandler handles events that do not depend on who is signed in.
type PlainHandler func(s repository.Store, ev *Event) error

// ScopedHandler handles events whose effect depends on the active user or
// team.
type ScopedHandler func(activeUserID, activeTeamID string, s repository.Store, ev *Event) error

// Handler holds exactly one of the two handler shapes.
type Handler struct {
	plain  PlainHandler
	scoped ScopedHandler
}

func Plain(fn PlainHandler) Handler   { return Handler{plain: fn} }
func Scoped(fn ScopedHandler) Handler { return Handler{scoped: fn} }

func (h Handler) IsScoped() bool { return h.scoped != nil }

func (h Handler) call(id Identity, s repository.Store, ev *Event) error {
	if h.scoped != nil {
		return h.scoped(id.UserID, id.TeamID, s, ev)
	}
	return h.plain(s, ev)
}

var noop = Plain(func(repository.Store, *Event) error { return nil })

type Family int

const (
	FamilyChannel Family = iota
	FamilyGroup
	FamilyDM
	FamilyMessage
	FamilyReaction
	FamilyUser
	FamilyPresence
	FamilyTeam
	FamilyBot
)

func (f Family) String() string {
	switch f {
	case FamilyChannel:
		return "channel"
	case FamilyGroup:
		return "group"
	case FamilyDM:
		return "dm"
	case FamilyMessage:
		return "message"
	case FamilyReaction:
		return "reaction"
	case FamilyUser:
		return "user"
	case FamilyPresence:
		return "presence"
	case FamilyTeam:
		return "team"
	case FamilyBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Registry maps the event types of one family to their handlers. It has no
// mutators; the set of types is fixed when the registry is built.
type Registry struct {
	family   Family
	handlers map[EventType]Handler
}

func newRegistry(f Family, handlers map[EventType]Handler) Registry {
	return Registry{family: f, handlers: maps.Clone(handlers)}
}

func (r Registry) Family() Family { return r.family }

func (r Registry) Lookup(t EventType) (Handler, bool) {
	h, ok := r.handlers[t]
	return h, ok
}

// Types lists the registry's event types in declaration order.
func (r Registry) Types() []EventType {
	return slices.Sorted(maps.Keys(r.handlers))
}

// Registries returns the registry of every event family.
func Registries() []Registry {
	return []Registry{
		channelRegistry(),
		groupRegistry(),
		dmRegistry(),
		messageRegistry(),
		reactionRegistry(),
		userRegistry(),
		presenceRegistry(),
		teamRegistry(),
		botRegistry(),
	}
}
