package rtm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

// EventSource delivers raw event frames in arrival order. Run calls fn on
// its own goroutine and returns when ctx ends or the source fails.
type EventSource interface {
	Run(ctx context.Context, fn func(frame []byte) error) error
	Close() error
}

// Session owns a store for the lifetime of one connection. The snapshot is
// fully loaded before any live event is applied.
type Session struct {
	ID uuid.UUID

	store      repository.Store
	dispatcher *Dispatcher
	log        *zap.Logger
	metrics    *Metrics
	status     statusBox
}

// NewSession loads snap into store. A zero identity is taken from the
// snapshot's self and team records.
func NewSession(store repository.Store, snap *domain.Snapshot, identity Identity, opts ...Option) (*Session, error) {
	o := buildOptions(opts)
	id := uuid.New()
	log := o.log.With(zap.Stringer("session", id))

	if err := LoadSnapshot(store, snap); err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if identity == (Identity{}) {
		identity = snapshotIdentity(snap)
	}

	counts := store.Counts()
	log.Info("snapshot loaded",
		zap.String("user", identity.UserID),
		zap.String("team", identity.TeamID),
		zap.Int("users", counts.Users),
		zap.Int("channels", counts.Channels),
		zap.Int("groups", counts.Groups),
		zap.Int("ims", counts.DMs),
		zap.Int("bots", counts.Bots),
	)
	o.metrics.setCounts(counts)

	s := &Session{
		ID:         id,
		store:      store,
		dispatcher: NewDispatcher(store, identity, WithLogger(log), WithMetrics(o.metrics)),
		log:        log,
		metrics:    o.metrics,
	}
	s.status.update(func(st *Status) {
		st.Session = id
		st.UserID = identity.UserID
		st.TeamID = identity.TeamID
		st.Counts = counts
	})
	return s, nil
}

func (s *Session) Store() repository.Store { return s.store }
func (s *Session) Dispatcher() *Dispatcher { return s.dispatcher }
func (s *Session) Identity() Identity      { return s.dispatcher.Identity() }

// Status may be called concurrently with Run.
func (s *Session) Status() Status { return s.status.load() }

// Apply dispatches one frame. Rejected events are logged and returned.
func (s *Session) Apply(frame []byte) error {
	err := s.dispatcher.DispatchRaw(frame)
	if err != nil {
		s.log.Warn("event rejected", zap.Error(err))
	}
	counts := s.store.Counts()
	s.metrics.setCounts(counts)
	s.status.update(func(st *Status) {
		st.Counts = counts
		st.LastEvent = time.Now()
		if err != nil {
			st.Rejected++
		} else {
			st.Applied++
		}
	})
	return err
}

// Run applies every frame from src until ctx is cancelled or src fails. A
// rejected event does not stop the session.
func (s *Session) Run(ctx context.Context, src EventSource) error {
	s.log.Info("session running")
	defer s.log.Info("session stopped")

	err := src.Run(ctx, func(frame []byte) error {
		_ = s.Apply(frame)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("event source: %w", err)
	}
	return nil
}
