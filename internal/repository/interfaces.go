package repository

import (
	"context"

	"github.com/vedran77/pulse-mirror/internal/domain"
)

// Store is the query surface over the mirrored workspace. Getters return nil
// for unknown ids. Implementations are not safe for concurrent use; a host
// that reads from other goroutines must serialize access itself.
type Store interface {
	GetUserByID(id string) *domain.User
	GetUserByName(name string) *domain.User
	GetUserByEmail(email string) *domain.User
	GetUserByBotID(botID string) *domain.User
	SetUser(user *domain.User)
	UpsertUser(p domain.Partial) (*domain.User, error)
	RemoveUser(id string)

	GetChannelByID(id string) *domain.Channel
	GetChannelByName(name string) *domain.Channel
	SetChannel(channel *domain.Channel)
	UpsertChannel(p domain.Partial) (*domain.Channel, error)
	RemoveChannel(id string)

	GetGroupByID(id string) *domain.Group
	GetGroupByName(name string) *domain.Group
	SetGroup(group *domain.Group)
	UpsertGroup(p domain.Partial) (*domain.Group, error)
	RemoveGroup(id string)

	GetDMByID(id string) *domain.DM
	GetDMByName(name string) *domain.DM
	SetDM(dm *domain.DM)
	UpsertDM(p domain.Partial) (*domain.DM, error)
	RemoveDM(id string)

	GetBotByID(id string) *domain.Bot
	GetBotByName(name string) *domain.Bot
	GetBotByUserID(userID string) *domain.Bot
	SetBot(bot *domain.Bot)
	UpsertBot(p domain.Partial) (*domain.Bot, error)
	RemoveBot(id string)

	GetTeamByID(id string) *domain.Team
	GetTeamByName(name string) *domain.Team
	SetTeam(team *domain.Team)
	UpsertTeam(p domain.Partial) (*domain.Team, error)
	RemoveTeam(id string)

	// GetChannelGroupOrDMByID tries channels, then groups, then DMs.
	GetChannelGroupOrDMByID(id string) domain.Conversation
	// Conversations lists channels, then groups, then DMs, each in
	// insertion order.
	Conversations() []domain.Conversation

	Counts() Counts
	Clear()
}

type Counts struct {
	Users    int `json:"users"`
	Channels int `json:"channels"`
	Groups   int `json:"groups"`
	DMs      int `json:"ims"`
	Bots     int `json:"bots"`
	Teams    int `json:"teams"`
}

// SnapshotSource supplies the initial workspace state for a session.
type SnapshotSource interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
}
