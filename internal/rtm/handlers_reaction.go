package rtm

import (
	"fmt"

	"github.com/vedran77/pulse-mirror/internal/repository"
)

func reactionRegistry() Registry {
	return newRegistry(FamilyReaction, map[EventType]Handler{
		ReactionAdded:   Plain(handleReaction(true)),
		ReactionRemoved: Plain(handleReaction(false)),
	})
}

type reactionPayload struct {
	User     string `json:"user"`
	Reaction string `json:"reaction"`
	Item     *struct {
		Type    string `json:"type"`
		Channel string `json:"channel"`
		TS      string `json:"ts"`
	} `json:"item"`
}

// handleReaction applies a reaction to a message. Reactions on files and
// file comments have no target in the store.
func handleReaction(added bool) PlainHandler {
	return func(s repository.Store, ev *Event) error {
		var p reactionPayload
		if err := ev.decode(&p); err != nil {
			return err
		}
		switch {
		case p.Item == nil:
			return ev.malformed("missing %q", "item")
		case p.Reaction == "":
			return ev.malformed("missing %q", "reaction")
		case p.User == "":
			return ev.malformed("missing %q", "user")
		}
		if p.Item.Type != "" && p.Item.Type != "message" {
			return nil
		}
		if p.Item.Channel == "" || p.Item.TS == "" {
			return ev.malformed("item needs channel and ts")
		}

		c, err := conversation(s, p.Item.Channel)
		if err != nil {
			return err
		}
		m := c.GetMessageByTs(p.Item.TS)
		if m == nil {
			return fmt.Errorf("message %s in %s: %w", p.Item.TS, p.Item.Channel, errTargetMissing)
		}
		if added {
			m.AddReaction(p.Reaction, p.User)
		} else {
			m.RemoveReaction(p.Reaction, p.User)
		}
		return nil
	}
}
