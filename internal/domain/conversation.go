package domain

import (
	"encoding/json"
	"slices"
	"sort"
	"time"
)

type Kind string

const (
	KindChannel Kind = "channel"
	KindGroup   Kind = "group"
	KindDM      Kind = "im"
)

// Conversation is implemented by Channel, Group and DM.
type Conversation interface {
	Base() *BaseConversation
	Kind() Kind
}

type Topic struct {
	Value   string `json:"value"`
	Creator string `json:"creator"`
	LastSet int64  `json:"last_set"`
}

// BaseConversation holds the state shared by every conversation kind.
// History and the typing set are local state and are not serialized.
type BaseConversation struct {
	ID         string
	Name       string
	Created    int64
	Creator    string
	Members    []string
	IsArchived bool
	LastRead   string
	Latest     *Message
	History    []*Message
	Extra      map[string]json.RawMessage

	typing map[string]time.Time
}

func (c *BaseConversation) baseSchema() fields {
	return fields{
		"id":          field(&c.ID),
		"name":        field(&c.Name),
		"created":     field(&c.Created),
		"creator":     field(&c.Creator),
		"members":     field(&c.Members),
		"is_archived": field(&c.IsArchived),
		"last_read":   field(&c.LastRead),
		"latest":      field(&c.Latest),
	}
}

func (c *BaseConversation) merge(f fields, p Partial) error {
	if err := f.apply(p, &c.Extra); err != nil {
		return err
	}
	// latest is always a message we have seen
	if c.Latest != nil && c.Latest.TS != "" {
		c.AddMessage(c.Latest)
	}
	return nil
}

func (c *BaseConversation) baseObject() object {
	return newObject(c.Extra).
		put("id", c.ID).
		putIf(c.Name != "", "name", c.Name).
		putIf(c.Created != 0, "created", c.Created).
		putIf(c.Creator != "", "creator", c.Creator).
		putIf(c.Members != nil, "members", c.Members).
		put("is_archived", c.IsArchived).
		putIf(c.LastRead != "", "last_read", c.LastRead).
		putIf(c.Latest != nil, "latest", c.Latest)
}

// AddMessage inserts msg into the history keeping it sorted by ts. A message
// whose ts is already present replaces the existing entry.
func (c *BaseConversation) AddMessage(msg *Message) {
	i := sort.Search(len(c.History), func(i int) bool {
		return CompareTS(c.History[i].TS, msg.TS) >= 0
	})
	if i < len(c.History) && CompareTS(c.History[i].TS, msg.TS) == 0 {
		c.History[i] = msg
	} else {
		c.History = slices.Insert(c.History, i, msg)
	}

	if c.Latest == nil || CompareTS(msg.TS, c.Latest.TS) >= 0 {
		c.Latest = msg
	}
}

// GetMessageByTs returns the history entry with the given ts, or nil.
func (c *BaseConversation) GetMessageByTs(ts string) *Message {
	for _, m := range c.History {
		if m.TS == ts {
			return m
		}
	}
	return nil
}

// RecalcUnreads counts history entries newer than last_read.
func (c *BaseConversation) RecalcUnreads() int {
	n := 0
	for _, m := range c.History {
		if CompareTS(m.TS, c.LastRead) > 0 {
			n++
		}
	}
	return n
}

func (c *BaseConversation) HasMember(userID string) bool {
	return slices.Contains(c.Members, userID)
}

// AddMember appends userID unless it is already a member.
func (c *BaseConversation) AddMember(userID string) {
	if !c.HasMember(userID) {
		c.Members = append(c.Members, userID)
	}
}

func (c *BaseConversation) RemoveMember(userID string) {
	c.Members = slices.DeleteFunc(c.Members, func(id string) bool { return id == userID })
}

// StartedTyping records that userID is typing now. Readers decide when an
// entry has gone stale.
func (c *BaseConversation) StartedTyping(userID string) {
	if c.typing == nil {
		c.typing = make(map[string]time.Time)
	}
	c.typing[userID] = time.Now()
}

func (c *BaseConversation) StoppedTyping(userID string) {
	delete(c.typing, userID)
}

// TypingAt returns when userID last typed.
func (c *BaseConversation) TypingAt(userID string) (time.Time, bool) {
	t, ok := c.typing[userID]
	return t, ok
}

// Typers returns the users that typed within ttl, sorted by id.
func (c *BaseConversation) Typers(ttl time.Duration) []string {
	cutoff := time.Now().Add(-ttl)
	var ids []string
	for id, at := range c.typing {
		if at.After(cutoff) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
