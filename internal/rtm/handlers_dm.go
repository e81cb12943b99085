package rtm

import (
	"fmt"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

func dmRegistry() Registry {
	return newRegistry(FamilyDM, map[EventType]Handler{
		IMClose:          Plain(setOpen(false)),
		IMCreated:        Plain(handleIMCreated),
		IMHistoryChanged: noop,
		IMMarked:         Plain(handleMarked),
		IMOpen:           Plain(setOpen(true)),
	})
}

func handleIMCreated(s repository.Store, ev *Event) error {
	obj, err := ev.object("channel")
	if err != nil {
		return err
	}
	dm, err := domain.NewDM(obj)
	if err != nil {
		return ev.malformed("channel: %v", err)
	}
	if dm.User == "" {
		dm.User = ev.Payload.String("user")
	}
	s.SetDM(dm)
	return nil
}

func setOpen(open bool) PlainHandler {
	return func(s repository.Store, ev *Event) error {
		ref, err := decodeRef(ev)
		if err != nil {
			return err
		}
		dm := s.GetDMByID(ref.Channel)
		if dm == nil {
			return fmt.Errorf("dm %s: %w", ref.Channel, errTargetMissing)
		}
		dm.IsOpen = open
		return nil
	}
}
