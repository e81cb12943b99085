package rtm

import (
	"fmt"

	"github.com/vedran77/pulse-mirror/internal/domain"
	"github.com/vedran77/pulse-mirror/internal/repository"
)

func teamRegistry() Registry {
	return newRegistry(FamilyTeam, map[EventType]Handler{
		TeamDomainChange: Scoped(handleTeamDomainChange),
		TeamJoin:         Plain(handleTeamJoin),
		TeamPrefChange:   Scoped(handleTeamPrefChange),
		TeamRename:       Scoped(handleTeamRename),
	})
}

func activeTeam(s repository.Store, teamID string) (*domain.Team, error) {
	t := s.GetTeamByID(teamID)
	if t == nil {
		return nil, fmt.Errorf("team %s: %w", teamID, errTargetMissing)
	}
	return t, nil
}

// handleTeamJoin builds a fresh user record for the new member.
func handleTeamJoin(s repository.Store, ev *Event) error {
	obj, err := ev.object("user")
	if err != nil {
		return err
	}
	u, err := domain.NewUser(obj)
	if err != nil {
		return ev.malformed("user: %v", err)
	}
	if u.ID == "" {
		return ev.malformed("missing %q", "user.id")
	}
	s.SetUser(u)
	return nil
}

func handleTeamDomainChange(_, activeTeamID string, s repository.Store, ev *Event) error {
	var p struct {
		URL    string `json:"url"`
		Domain string `json:"domain"`
	}
	if err := ev.decode(&p); err != nil {
		return err
	}
	t, err := activeTeam(s, activeTeamID)
	if err != nil {
		return err
	}
	t.Domain = p.Domain
	t.URL = p.URL
	return nil
}

func handleTeamRename(_, activeTeamID string, s repository.Store, ev *Event) error {
	var p struct {
		Name string `json:"name"`
	}
	if err := ev.decode(&p); err != nil {
		return err
	}
	t, err := activeTeam(s, activeTeamID)
	if err != nil {
		return err
	}
	t.Name = p.Name
	return nil
}

func handleTeamPrefChange(_, activeTeamID string, s repository.Store, ev *Event) error {
	name, value, err := decodePref(ev)
	if err != nil {
		return err
	}
	t, err := activeTeam(s, activeTeamID)
	if err != nil {
		return err
	}
	t.SetPref(name, value)
	return nil
}
