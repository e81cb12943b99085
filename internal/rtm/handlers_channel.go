package rtm

import (
	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

func channelRegistry() Registry {
	return newRegistry(FamilyChannel, map[EventType]Handler{
		ChannelArchive:        Plain(setArchived(true)),
		ChannelCreated:        Plain(handleChannelCreated),
		ChannelDeleted:        Plain(handleChannelDeleted),
		ChannelHistoryChanged: noop,
		ChannelJoined:         Plain(handleChannelJoined),
		ChannelLeft:           Scoped(handleChannelLeft),
		ChannelMarked:         Plain(handleMarked),
		ChannelRename:         Plain(handleRename),
		ChannelUnarchive:      Plain(setArchived(false)),
	})
}

// handleChannelCreated replaces any existing record with the new channel.
func handleChannelCreated(s repository.Store, ev *Event) error {
	obj, err := ev.object("channel")
	if err != nil {
		return err
	}
	ch, err := domain.NewChannel(obj)
	if err != nil {
		return ev.malformed("channel: %v", err)
	}
	s.SetChannel(ch)
	return nil
}

func handleChannelDeleted(s repository.Store, ev *Event) error {
	id, err := ev.stringField("channel")
	if err != nil {
		return err
	}
	s.RemoveChannel(id)
	return nil
}

func handleChannelJoined(s repository.Store, ev *Event) error {
	obj, err := ev.object("channel")
	if err != nil {
		return err
	}
	if _, err := s.UpsertChannel(obj); err != nil {
		return ev.malformed("channel: %v", err)
	}
	return nil
}

func handleChannelLeft(activeUserID, _ string, s repository.Store, ev *Event) error {
	c, err := leave(activeUserID, s, ev)
	if err != nil {
		return err
	}
	if ch := s.GetChannelByID(c.ID); ch != nil {
		ch.IsMember = false
	}
	return nil
}
