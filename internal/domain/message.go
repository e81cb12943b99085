package domain

import (
	"encoding/json"
	"slices"
)

const SubtypeMessageDeleted = "message_deleted"

type Reaction struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
	Count int      `json:"count"`
}

// Message lives inside a conversation's history; it is never stored on its
// own.
type Message struct {
	Type      string
	Subtype   string
	User      string
	BotID     string
	Text      string
	TS        string
	Reactions []Reaction
	Extra     map[string]json.RawMessage
}

func (m *Message) schema() fields {
	return fields{
		"type":      field(&m.Type),
		"subtype":   field(&m.Subtype),
		"user":      field(&m.User),
		"bot_id":    field(&m.BotID),
		"text":      field(&m.Text),
		"ts":        field(&m.TS),
		"reactions": field(&m.Reactions),
	}
}

func NewMessage(p Partial) (*Message, error) {
	m := &Message{}
	if err := m.Update(p); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Message) Update(p Partial) error {
	return m.schema().apply(p, &m.Extra)
}

// AddReaction records user under the named reaction. Adding the same user
// twice is a no-op.
func (m *Message) AddReaction(name, user string) {
	for i := range m.Reactions {
		r := &m.Reactions[i]
		if r.Name != name {
			continue
		}
		if !slices.Contains(r.Users, user) {
			r.Users = append(r.Users, user)
			r.Count++
		}
		return
	}
	m.Reactions = append(m.Reactions, Reaction{Name: name, Users: []string{user}, Count: 1})
}

// RemoveReaction drops user from the named reaction and deletes the
// reaction once nobody is left on it.
func (m *Message) RemoveReaction(name, user string) {
	i := slices.IndexFunc(m.Reactions, func(r Reaction) bool { return r.Name == name })
	if i < 0 {
		return
	}
	r := &m.Reactions[i]
	j := slices.Index(r.Users, user)
	if j < 0 {
		return
	}
	r.Users = slices.Delete(r.Users, j, j+1)
	r.Count--
	if len(r.Users) == 0 || r.Count <= 0 {
		m.Reactions = slices.Delete(m.Reactions, i, i+1)
	}
}

// Reaction returns the named reaction, or nil.
func (m *Message) Reaction(name string) *Reaction {
	for i := range m.Reactions {
		if m.Reactions[i].Name == name {
			return &m.Reactions[i]
		}
	}
	return nil
}

func (m *Message) UnmarshalJSON(data []byte) error {
	p, err := partialOf(data)
	if err != nil {
		return err
	}
	*m = Message{}
	return m.Update(p)
}

func (m Message) MarshalJSON() ([]byte, error) {
	return newObject(m.Extra).
		putIf(m.Type != "", "type", m.Type).
		putIf(m.Subtype != "", "subtype", m.Subtype).
		putIf(m.User != "", "user", m.User).
		putIf(m.BotID != "", "bot_id", m.BotID).
		putIf(m.Text != "", "text", m.Text).
		put("ts", m.TS).
		putIf(len(m.Reactions) > 0, "reactions", m.Reactions).
		marshal()
}
