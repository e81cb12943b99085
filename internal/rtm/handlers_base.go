package rtm

import (
	"fmt"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

// conversationRef is the payload of archive, marked and leave events.
type conversationRef struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	TS      string `json:"ts"`
}

func decodeRef(ev *Event) (conversationRef, error) {
	var ref conversationRef
	if err := ev.decode(&ref); err != nil {
		return ref, err
	}
	if ref.Channel == "" {
		return ref, ev.malformed("missing %q", "channel")
	}
	return ref, nil
}

func conversation(s repository.Store, id string) (*domain.BaseConversation, error) {
	c := s.GetChannelGroupOrDMByID(id)
	if c == nil {
		return nil, fmt.Errorf("conversation %s: %w", id, errTargetMissing)
	}
	return c.Base(), nil
}

func setArchived(archived bool) PlainHandler {
	return func(s repository.Store, ev *Event) error {
		ref, err := decodeRef(ev)
		if err != nil {
			return err
		}
		c, err := conversation(s, ref.Channel)
		if err != nil {
			return err
		}
		c.IsArchived = archived
		return nil
	}
}

func handleRename(s repository.Store, ev *Event) error {
	var p struct {
		Channel struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"channel"`
	}
	if err := ev.decode(&p); err != nil {
		return err
	}
	if p.Channel.ID == "" {
		return ev.malformed("missing %q", "channel.id")
	}
	c, err := conversation(s, p.Channel.ID)
	if err != nil {
		return err
	}
	c.Name = p.Channel.Name
	return nil
}

// handleMarked moves last_read. Unreads are recounted on the next query.
func handleMarked(s repository.Store, ev *Event) error {
	ref, err := decodeRef(ev)
	if err != nil {
		return err
	}
	c, err := conversation(s, ref.Channel)
	if err != nil {
		return err
	}
	c.LastRead = ref.TS
	return nil
}

// leave removes the leaving user from the conversation's members. Events
// that name no user are about the active user.
func leave(activeUserID string, s repository.Store, ev *Event) (*domain.BaseConversation, error) {
	ref, err := decodeRef(ev)
	if err != nil {
		return nil, err
	}
	c, err := conversation(s, ref.Channel)
	if err != nil {
		return nil, err
	}
	who := ref.User
	if who == "" {
		who = activeUserID
	}
	removeMember(s, c, who)
	return c, nil
}

// removeMember drops user from c. A group left with no members is archived.
func removeMember(s repository.Store, c *domain.BaseConversation, user string) {
	c.RemoveMember(user)
	if len(c.Members) == 0 && s.GetGroupByID(c.ID) != nil {
		c.IsArchived = true
	}
}
