package rtm

import (
	"errors"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

var ErrNoSnapshot = errors.New("no snapshot")

// LoadSnapshot bulk-loads snap into s. Records are set, not merged, so the
// snapshot's version of a record replaces anything stored under its id.
func LoadSnapshot(s repository.Store, snap *domain.Snapshot) error {
	if snap == nil {
		return ErrNoSnapshot
	}
	if snap.Team != nil {
		s.SetTeam(snap.Team)
	}
	for _, u := range snap.Users {
		if u != nil {
			s.SetUser(u)
		}
	}
	for _, c := range snap.Channels {
		if c != nil {
			s.SetChannel(c)
		}
	}
	for _, g := range snap.Groups {
		if g != nil {
			s.SetGroup(g)
		}
	}
	for _, d := range snap.IMs {
		if d != nil {
			s.SetDM(d)
		}
	}
	for _, b := range snap.Bots {
		if b != nil {
			s.SetBot(b)
		}
	}
	return nil
}

// snapshotIdentity returns the account the snapshot was taken for.
func snapshotIdentity(snap *domain.Snapshot) Identity {
	var id Identity
	if snap.Self != nil {
		id.UserID = snap.Self.ID
	}
	if snap.Team != nil {
		id.TeamID = snap.Team.ID
	}
	return id
}
