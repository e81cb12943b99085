package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrUserNotFound      = errors.New("user not found")
)

// SnapshotRepo builds a workspace snapshot, as seen by one user, from the
// Pulse schema.
type SnapshotRepo struct {
	workspaceID uuid.UUID
	userID      uuid.UUID

	users      *UserRepo
	workspaces *WorkspaceRepo
	channels   *ChannelRepo
	messages   *MessageRepo
	dms        *DMRepo
}

var _ repository.SnapshotSource = (*SnapshotRepo)(nil)

func NewSnapshotRepo(pool *pgxpool.Pool, workspaceID, userID uuid.UUID) *SnapshotRepo {
	return &SnapshotRepo{
		workspaceID: workspaceID,
		userID:      userID,
		users:       NewUserRepo(pool),
		workspaces:  NewWorkspaceRepo(pool),
		channels:    NewChannelRepo(pool),
		messages:    NewMessageRepo(pool),
		dms:         NewDMRepo(pool),
	}
}

// Load runs the snapshot queries concurrently and assembles the result.
func (r *SnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	var (
		snap     domain.Snapshot
		members  map[string][]string
		latest   map[string]*domain.Message
		channels []*domain.Channel
		groups   []*domain.Group
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Self, err = r.users.GetSelf(ctx, r.userID)
		return wrap("self", err)
	})
	g.Go(func() (err error) {
		snap.Team, err = r.workspaces.GetTeam(ctx, r.workspaceID)
		return wrap("workspace", err)
	})
	g.Go(func() (err error) {
		snap.Users, err = r.users.ListByWorkspace(ctx, r.workspaceID)
		return wrap("users", err)
	})
	g.Go(func() (err error) {
		channels, groups, err = r.channels.ListVisible(ctx, r.workspaceID, r.userID)
		return wrap("channels", err)
	})
	g.Go(func() (err error) {
		members, err = r.channels.MembersByWorkspace(ctx, r.workspaceID)
		return wrap("channel members", err)
	})
	g.Go(func() (err error) {
		latest, err = r.messages.LatestByWorkspace(ctx, r.workspaceID)
		return wrap("latest messages", err)
	})
	g.Go(func() (err error) {
		snap.IMs, err = r.dms.ListConversations(ctx, r.userID)
		return wrap("dm conversations", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if snap.Team == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, r.workspaceID)
	}
	if snap.Self == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, r.userID)
	}

	for _, c := range channels {
		fill(&c.BaseConversation, members, latest)
	}
	for _, gr := range groups {
		fill(&gr.BaseConversation, members, latest)
	}
	snap.Channels = channels
	snap.Groups = groups
	return &snap, nil
}

func fill(c *domain.BaseConversation, members map[string][]string, latest map[string]*domain.Message) {
	c.Members = members[c.ID]
	if c.Members == nil {
		c.Members = []string{}
	}
	if m := latest[c.ID]; m != nil {
		c.AddMessage(m)
	}
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("loading %s: %w", what, err)
	}
	return nil
}
