package rtm

import (
	"fmt"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

func messageRegistry() Registry {
	return newRegistry(FamilyMessage, map[EventType]Handler{
		Message:               Plain(handleMessage),
		MessageChannelJoin:    Plain(handleMemberJoin),
		MessageGroupJoin:      Plain(handleMemberJoin),
		MessageChannelLeave:   Plain(handleMemberLeave),
		MessageGroupLeave:     Plain(handleMemberLeave),
		MessageChannelTopic:   Plain(handleTopic("topic")),
		MessageGroupTopic:     Plain(handleTopic("topic")),
		MessageChannelPurpose: Plain(handleTopic("purpose")),
		MessageGroupPurpose:   Plain(handleTopic("purpose")),
		MessageChannelName:    Plain(handleNameChange),
		MessageGroupName:      Plain(handleNameChange),
		MessageChanged:        Plain(handleMessageChanged),
		MessageDeleted:        Plain(handleMessageDeleted),
	})
}

// appendMessage stores the event itself in its conversation's history.
func appendMessage(s repository.Store, ev *Event) (*domain.BaseConversation, *domain.Message, error) {
	id, err := ev.stringField("channel")
	if err != nil {
		return nil, nil, err
	}
	if _, err := ev.stringField("ts"); err != nil {
		return nil, nil, err
	}
	c, err := conversation(s, id)
	if err != nil {
		return nil, nil, err
	}
	msg, err := domain.NewMessage(ev.Payload)
	if err != nil {
		return nil, nil, ev.malformed("message: %v", err)
	}
	c.AddMessage(msg)
	return c, msg, nil
}

func handleMessage(s repository.Store, ev *Event) error {
	c, msg, err := appendMessage(s, ev)
	if err != nil {
		return err
	}
	if msg.User != "" {
		c.StoppedTyping(msg.User)
	}
	return nil
}

func handleMemberJoin(s repository.Store, ev *Event) error {
	c, msg, err := appendMessage(s, ev)
	if err != nil {
		return err
	}
	if msg.User == "" {
		return ev.malformed("missing %q", "user")
	}
	c.AddMember(msg.User)
	return nil
}

func handleMemberLeave(s repository.Store, ev *Event) error {
	c, msg, err := appendMessage(s, ev)
	if err != nil {
		return err
	}
	if msg.User == "" {
		return ev.malformed("missing %q", "user")
	}
	removeMember(s, c, msg.User)
	return nil
}

// handleTopic records a topic or purpose change. DMs carry neither, so only
// the history is updated for them.
func handleTopic(key string) PlainHandler {
	return func(s repository.Store, ev *Event) error {
		_, msg, err := appendMessage(s, ev)
		if err != nil {
			return err
		}
		t := domain.Topic{
			Value:   ev.Payload.String(key),
			Creator: msg.User,
			LastSet: domain.TSSeconds(msg.TS),
		}
		switch c := s.GetChannelGroupOrDMByID(ev.Payload.String("channel")).(type) {
		case *domain.Channel:
			if key == "topic" {
				c.Topic = t
			} else {
				c.Purpose = t
			}
		case *domain.Group:
			if key == "topic" {
				c.Topic = t
			} else {
				c.Purpose = t
			}
		}
		return nil
	}
}

func handleNameChange(s repository.Store, ev *Event) error {
	c, _, err := appendMessage(s, ev)
	if err != nil {
		return err
	}
	if name := ev.Payload.String("name"); name != "" {
		c.Name = name
	}
	return nil
}

// handleMessageChanged merges the edited message onto the stored one.
func handleMessageChanged(s repository.Store, ev *Event) error {
	id, err := ev.stringField("channel")
	if err != nil {
		return err
	}
	edited, err := ev.object("message")
	if err != nil {
		return err
	}
	ts := edited.String("ts")
	if ts == "" {
		return ev.malformed("missing %q", "message.ts")
	}
	c, err := conversation(s, id)
	if err != nil {
		return err
	}
	m := c.GetMessageByTs(ts)
	if m == nil {
		return fmt.Errorf("message %s in %s: %w", ts, id, errTargetMissing)
	}
	if err := m.Update(edited); err != nil {
		return ev.malformed("message: %v", err)
	}
	return nil
}

// handleMessageDeleted marks the message deleted. The entry stays in the
// history so its slot and ts are kept.
func handleMessageDeleted(s repository.Store, ev *Event) error {
	id, err := ev.stringField("channel")
	if err != nil {
		return err
	}
	ts, err := ev.stringField("deleted_ts")
	if err != nil {
		return err
	}
	c, err := conversation(s, id)
	if err != nil {
		return err
	}
	m := c.GetMessageByTs(ts)
	if m == nil {
		return fmt.Errorf("message %s in %s: %w", ts, id, errTargetMissing)
	}
	m.Subtype = domain.SubtypeMessageDeleted
	return nil
}
