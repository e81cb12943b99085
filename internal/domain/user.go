package domain

import (
	"encoding/json"
)

type Presence string

const (
	PresenceActive Presence = "active"
	PresenceAway   Presence = "away"
)

type Profile struct {
	Email     string
	BotID     string
	RealName  string
	FirstName string
	LastName  string
	Extra     map[string]json.RawMessage
}

func (p *Profile) schema() fields {
	return fields{
		"email":      field(&p.Email),
		"bot_id":     field(&p.BotID),
		"real_name":  field(&p.RealName),
		"first_name": field(&p.FirstName),
		"last_name":  field(&p.LastName),
	}
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	part, err := partialOf(data)
	if err != nil {
		return err
	}
	*p = Profile{}
	return p.schema().apply(part, &p.Extra)
}

func (p Profile) MarshalJSON() ([]byte, error) {
	return newObject(p.Extra).
		putIf(p.Email != "", "email", p.Email).
		putIf(p.BotID != "", "bot_id", p.BotID).
		putIf(p.RealName != "", "real_name", p.RealName).
		putIf(p.FirstName != "", "first_name", p.FirstName).
		putIf(p.LastName != "", "last_name", p.LastName).
		marshal()
}

type User struct {
	ID       string
	TeamID   string
	Name     string
	RealName string
	Deleted  bool
	IsBot    bool
	IsAdmin  bool
	Presence Presence
	Profile  Profile
	Prefs    map[string]any
	// Buddy links another user record. It is decoded as a full User.
	Buddy *User
	Extra map[string]json.RawMessage
}

func (u *User) schema() fields {
	return fields{
		"id":        field(&u.ID),
		"team_id":   field(&u.TeamID),
		"name":      field(&u.Name),
		"real_name": field(&u.RealName),
		"deleted":   field(&u.Deleted),
		"is_bot":    field(&u.IsBot),
		"is_admin":  field(&u.IsAdmin),
		"presence":  field(&u.Presence),
		"profile":   field(&u.Profile),
		"prefs":     field(&u.Prefs),
		"buddy":     field(&u.Buddy),
	}
}

// NewUser builds a user from a partial record.
func NewUser(p Partial) (*User, error) {
	u := &User{}
	if err := u.Update(p); err != nil {
		return nil, err
	}
	return u, nil
}

// Update merges p onto the user using the typed schema.
func (u *User) Update(p Partial) error {
	return u.schema().apply(p, &u.Extra)
}

// SetPref stores a single preference value.
func (u *User) SetPref(name string, value any) {
	if u.Prefs == nil {
		u.Prefs = make(map[string]any)
	}
	u.Prefs[name] = value
}

func (u *User) UnmarshalJSON(data []byte) error {
	p, err := partialOf(data)
	if err != nil {
		return err
	}
	*u = User{}
	return u.Update(p)
}

func (u User) MarshalJSON() ([]byte, error) {
	return newObject(u.Extra).
		put("id", u.ID).
		putIf(u.TeamID != "", "team_id", u.TeamID).
		put("name", u.Name).
		putIf(u.RealName != "", "real_name", u.RealName).
		putIf(u.Deleted, "deleted", u.Deleted).
		putIf(u.IsBot, "is_bot", u.IsBot).
		putIf(u.IsAdmin, "is_admin", u.IsAdmin).
		putIf(u.Presence != "", "presence", u.Presence).
		put("profile", u.Profile).
		putIf(u.Prefs != nil, "prefs", u.Prefs).
		putIf(u.Buddy != nil, "buddy", u.Buddy).
		marshal()
}

// Bot is merged with a plain shallow merge; it has no promoted fields.
type Bot struct {
	ID      string
	Name    string
	Deleted bool
	Icons   map[string]string
	Extra   map[string]json.RawMessage
}

func (b *Bot) schema() fields {
	return fields{
		"id":      field(&b.ID),
		"name":    field(&b.Name),
		"deleted": field(&b.Deleted),
		"icons":   field(&b.Icons),
	}
}

func NewBot(p Partial) (*Bot, error) {
	b := &Bot{}
	if err := b.Merge(p); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bot) Merge(p Partial) error {
	return b.schema().apply(p, &b.Extra)
}

func (b *Bot) UnmarshalJSON(data []byte) error {
	p, err := partialOf(data)
	if err != nil {
		return err
	}
	*b = Bot{}
	return b.Merge(p)
}

func (b Bot) MarshalJSON() ([]byte, error) {
	return newObject(b.Extra).
		put("id", b.ID).
		put("name", b.Name).
		putIf(b.Deleted, "deleted", b.Deleted).
		putIf(b.Icons != nil, "icons", b.Icons).
		marshal()
}
