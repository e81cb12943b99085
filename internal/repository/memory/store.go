package memory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

// table is one keyed container. Lookups that scan ("first match") walk
// records in insertion order.
type table[T any] struct {
	byID  map[string]*T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{byID: make(map[string]*T)}
}

func (t *table[T]) get(id string) *T {
	return t.byID[id]
}

func (t *table[T]) set(id string, v *T) {
	if _, ok := t.byID[id]; !ok {
		t.order = append(t.order, id)
	}
	t.byID[id] = v
}

func (t *table[T]) remove(id string) {
	if _, ok := t.byID[id]; !ok {
		return
	}
	delete(t.byID, id)
	t.order = slices.DeleteFunc(t.order, func(k string) bool { return k == id })
}

func (t *table[T]) find(match func(*T) bool) *T {
	for _, id := range t.order {
		if v := t.byID[id]; match(v) {
			return v
		}
	}
	return nil
}

func (t *table[T]) each(fn func(*T)) {
	for _, id := range t.order {
		fn(t.byID[id])
	}
}

func (t *table[T]) len() int {
	return len(t.byID)
}

// upsert merges p onto the record with p's id, or builds a new one.
func upsert[T any](t *table[T], p domain.Partial, build func(domain.Partial) (*T, error), merge func(*T, domain.Partial) error) (*T, error) {
	id := p.ID()
	if id == "" {
		return nil, fmt.Errorf("upsert: %w", repository.ErrMissingID)
	}
	if v := t.get(id); v != nil {
		if err := merge(v, p); err != nil {
			return nil, fmt.Errorf("merging %s: %w", id, err)
		}
		return v, nil
	}
	v, err := build(p)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", id, err)
	}
	t.set(id, v)
	return v, nil
}

// Store is the in-memory repository.Store. It holds no lock.
type Store struct {
	users    table[domain.User]
	channels table[domain.Channel]
	groups   table[domain.Group]
	dms      table[domain.DM]
	bots     table[domain.Bot]
	teams    table[domain.Team]
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	return s
}

func (s *Store) Clear() {
	s.users = newTable[domain.User]()
	s.channels = newTable[domain.Channel]()
	s.groups = newTable[domain.Group]()
	s.dms = newTable[domain.DM]()
	s.bots = newTable[domain.Bot]()
	s.teams = newTable[domain.Team]()
}

func (s *Store) Counts() repository.Counts {
	return repository.Counts{
		Users:    s.users.len(),
		Channels: s.channels.len(),
		Groups:   s.groups.len(),
		DMs:      s.dms.len(),
		Bots:     s.bots.len(),
		Teams:    s.teams.len(),
	}
}

// --- Users ---

func (s *Store) GetUserByID(id string) *domain.User {
	return s.users.get(id)
}

func (s *Store) GetUserByName(name string) *domain.User {
	return s.users.find(func(u *domain.User) bool { return u.Name == name })
}

// GetUserByEmail never matches users without an email.
func (s *Store) GetUserByEmail(email string) *domain.User {
	if email == "" {
		return nil
	}
	return s.users.find(func(u *domain.User) bool { return u.Profile.Email == email })
}

func (s *Store) GetUserByBotID(botID string) *domain.User {
	if botID == "" {
		return nil
	}
	return s.users.find(func(u *domain.User) bool { return u.Profile.BotID == botID })
}

func (s *Store) SetUser(user *domain.User) {
	s.users.set(user.ID, user)
}

func (s *Store) UpsertUser(p domain.Partial) (*domain.User, error) {
	return upsert(&s.users, p, domain.NewUser, (*domain.User).Update)
}

func (s *Store) RemoveUser(id string) {
	s.users.remove(id)
}

// --- Channels ---

func (s *Store) GetChannelByID(id string) *domain.Channel {
	return s.channels.get(id)
}

// GetChannelByName accepts the name with or without a leading '#'.
func (s *Store) GetChannelByName(name string) *domain.Channel {
	name = strings.TrimPrefix(name, "#")
	return s.channels.find(func(c *domain.Channel) bool { return c.Name == name })
}

func (s *Store) SetChannel(channel *domain.Channel) {
	s.channels.set(channel.ID, channel)
}

func (s *Store) UpsertChannel(p domain.Partial) (*domain.Channel, error) {
	return upsert(&s.channels, p, domain.NewChannel, (*domain.Channel).Update)
}

func (s *Store) RemoveChannel(id string) {
	s.channels.remove(id)
}

// --- Groups ---

func (s *Store) GetGroupByID(id string) *domain.Group {
	return s.groups.get(id)
}

func (s *Store) GetGroupByName(name string) *domain.Group {
	return s.groups.find(func(g *domain.Group) bool { return g.Name == name })
}

func (s *Store) SetGroup(group *domain.Group) {
	s.groups.set(group.ID, group)
}

func (s *Store) UpsertGroup(p domain.Partial) (*domain.Group, error) {
	return upsert(&s.groups, p, domain.NewGroup, (*domain.Group).Update)
}

func (s *Store) RemoveGroup(id string) {
	s.groups.remove(id)
}

// --- DMs ---

func (s *Store) GetDMByID(id string) *domain.DM {
	return s.dms.get(id)
}

// GetDMByName finds the DM held with the user called name.
func (s *Store) GetDMByName(name string) *domain.DM {
	user := s.GetUserByName(name)
	if user == nil {
		return nil
	}
	return s.dms.find(func(d *domain.DM) bool { return d.User == user.ID })
}

func (s *Store) SetDM(dm *domain.DM) {
	s.dms.set(dm.ID, dm)
}

func (s *Store) UpsertDM(p domain.Partial) (*domain.DM, error) {
	return upsert(&s.dms, p, domain.NewDM, (*domain.DM).Update)
}

func (s *Store) RemoveDM(id string) {
	s.dms.remove(id)
}

// --- Bots ---

func (s *Store) GetBotByID(id string) *domain.Bot {
	return s.bots.get(id)
}

func (s *Store) GetBotByName(name string) *domain.Bot {
	return s.bots.find(func(b *domain.Bot) bool { return b.Name == name })
}

// GetBotByUserID resolves the bot linked from a user's profile.
func (s *Store) GetBotByUserID(userID string) *domain.Bot {
	user := s.GetUserByID(userID)
	if user == nil || user.Profile.BotID == "" {
		return nil
	}
	return s.GetBotByID(user.Profile.BotID)
}

func (s *Store) SetBot(bot *domain.Bot) {
	s.bots.set(bot.ID, bot)
}

func (s *Store) UpsertBot(p domain.Partial) (*domain.Bot, error) {
	return upsert(&s.bots, p, domain.NewBot, (*domain.Bot).Merge)
}

func (s *Store) RemoveBot(id string) {
	s.bots.remove(id)
}

// --- Teams ---

func (s *Store) GetTeamByID(id string) *domain.Team {
	return s.teams.get(id)
}

func (s *Store) GetTeamByName(name string) *domain.Team {
	return s.teams.find(func(t *domain.Team) bool { return t.Name == name })
}

func (s *Store) SetTeam(team *domain.Team) {
	s.teams.set(team.ID, team)
}

func (s *Store) UpsertTeam(p domain.Partial) (*domain.Team, error) {
	return upsert(&s.teams, p, domain.NewTeam, (*domain.Team).Merge)
}

func (s *Store) RemoveTeam(id string) {
	s.teams.remove(id)
}

func (s *Store) GetChannelGroupOrDMByID(id string) domain.Conversation {
	if c := s.channels.get(id); c != nil {
		return c
	}
	if g := s.groups.get(id); g != nil {
		return g
	}
	if d := s.dms.get(id); d != nil {
		return d
	}
	return nil
}

func (s *Store) Conversations() []domain.Conversation {
	out := make([]domain.Conversation, 0, s.channels.len()+s.groups.len()+s.dms.len())
	s.channels.each(func(c *domain.Channel) { out = append(out, c) })
	s.groups.each(func(g *domain.Group) { out = append(out, g) })
	s.dms.each(func(d *domain.DM) { out = append(out, d) })
	return out
}
