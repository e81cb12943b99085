package rtm

import (
	"github.com/vedran77/pulse-mirror/internal/repository"
)

func groupRegistry() Registry {
	return newRegistry(FamilyGroup, map[EventType]Handler{
		GroupArchive:        Plain(setArchived(true)),
		GroupClose:          noop,
		GroupHistoryChanged: noop,
		GroupJoined:         Plain(handleGroupJoined),
		GroupLeft:           Scoped(handleGroupLeft),
		GroupMarked:         Plain(handleMarked),
		GroupOpen:           noop,
		GroupRename:         Plain(handleRename),
		GroupUnarchive:      Plain(setArchived(false)),
	})
}

func handleGroupJoined(s repository.Store, ev *Event) error {
	obj, err := ev.object("channel")
	if err != nil {
		return err
	}
	if _, err := s.UpsertGroup(obj); err != nil {
		return ev.malformed("channel: %v", err)
	}
	return nil
}

// handleGroupLeft removes the leaver; removeMember archives an emptied group.
func handleGroupLeft(activeUserID, _ string, s repository.Store, ev *Event) error {
	_, err := leave(activeUserID, s, ev)
	return err
}
