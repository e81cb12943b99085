package rtm

import (
	"encoding/json"
	"fmt"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

func userRegistry() Registry {
	return newRegistry(FamilyUser, map[EventType]Handler{
		PrefChange: Scoped(handlePrefChange),
		UserChange: Plain(handleUserChange),
		UserTyping: Plain(handleUserTyping),
	})
}

func presenceRegistry() Registry {
	return newRegistry(FamilyPresence, map[EventType]Handler{
		ManualPresenceChange: Scoped(handleManualPresenceChange),
		PresenceChange:       Plain(handlePresenceChange),
	})
}

func botRegistry() Registry {
	return newRegistry(FamilyBot, map[EventType]Handler{
		BotAdded:   Plain(handleBot),
		BotChanged: Plain(handleBot),
	})
}

type prefPayload struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func decodePref(ev *Event) (string, any, error) {
	var p prefPayload
	if err := ev.decode(&p); err != nil {
		return "", nil, err
	}
	if p.Name == "" {
		return "", nil, ev.malformed("missing %q", "name")
	}
	var value any
	if len(p.Value) > 0 {
		if err := json.Unmarshal(p.Value, &value); err != nil {
			return "", nil, ev.malformed("value: %v", err)
		}
	}
	return p.Name, value, nil
}

func handlePrefChange(activeUserID, _ string, s repository.Store, ev *Event) error {
	name, value, err := decodePref(ev)
	if err != nil {
		return err
	}
	u := s.GetUserByID(activeUserID)
	if u == nil {
		return fmt.Errorf("user %s: %w", activeUserID, errTargetMissing)
	}
	u.SetPref(name, value)
	return nil
}

func handleUserChange(s repository.Store, ev *Event) error {
	obj, err := ev.object("user")
	if err != nil {
		return err
	}
	if _, err := s.UpsertUser(obj); err != nil {
		return ev.malformed("user: %v", err)
	}
	return nil
}

func handleUserTyping(s repository.Store, ev *Event) error {
	ref, err := decodeRef(ev)
	if err != nil {
		return err
	}
	if ref.User == "" {
		return ev.malformed("missing %q", "user")
	}
	if s.GetUserByID(ref.User) == nil {
		return fmt.Errorf("user %s: %w", ref.User, errTargetMissing)
	}
	c, err := conversation(s, ref.Channel)
	if err != nil {
		return err
	}
	c.StartedTyping(ref.User)
	return nil
}

type presencePayload struct {
	User     string          `json:"user"`
	Users    []string        `json:"users"`
	Presence domain.Presence `json:"presence"`
}

// handlePresenceChange accepts both the single-user and the batched form.
// Unknown users are skipped.
func handlePresenceChange(s repository.Store, ev *Event) error {
	var p presencePayload
	if err := ev.decode(&p); err != nil {
		return err
	}
	ids := p.Users
	if p.User != "" {
		ids = append(ids, p.User)
	}
	if len(ids) == 0 {
		return ev.malformed("missing %q", "user")
	}

	found := 0
	for _, id := range ids {
		if u := s.GetUserByID(id); u != nil {
			u.Presence = p.Presence
			found++
		}
	}
	if found == 0 {
		return fmt.Errorf("users %v: %w", ids, errTargetMissing)
	}
	return nil
}

func handleManualPresenceChange(activeUserID, _ string, s repository.Store, ev *Event) error {
	var p presencePayload
	if err := ev.decode(&p); err != nil {
		return err
	}
	u := s.GetUserByID(activeUserID)
	if u == nil {
		return fmt.Errorf("user %s: %w", activeUserID, errTargetMissing)
	}
	u.Presence = p.Presence
	return nil
}

// handleBot covers bot_added and bot_changed. Bots take a plain merge.
func handleBot(s repository.Store, ev *Event) error {
	obj, err := ev.object("bot")
	if err != nil {
		return err
	}
	if _, err := s.UpsertBot(obj); err != nil {
		return ev.malformed("bot: %v", err)
	}
	return nil
}
