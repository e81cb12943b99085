package domain

import (
	"encoding/json"
)

// Team is merged with a plain shallow merge, like Bot.
type Team struct {
	ID     string
	Name   string
	Domain string
	URL    string
	Prefs  map[string]any
	Extra  map[string]json.RawMessage
}

func (t *Team) schema() fields {
	return fields{
		"id":     field(&t.ID),
		"name":   field(&t.Name),
		"domain": field(&t.Domain),
		"url":    field(&t.URL),
		"prefs":  field(&t.Prefs),
	}
}

func NewTeam(p Partial) (*Team, error) {
	t := &Team{}
	if err := t.Merge(p); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Team) Merge(p Partial) error {
	return t.schema().apply(p, &t.Extra)
}

func (t *Team) SetPref(name string, value any) {
	if t.Prefs == nil {
		t.Prefs = make(map[string]any)
	}
	t.Prefs[name] = value
}

func (t *Team) UnmarshalJSON(data []byte) error {
	p, err := partialOf(data)
	if err != nil {
		return err
	}
	*t = Team{}
	return t.Merge(p)
}

func (t Team) MarshalJSON() ([]byte, error) {
	return newObject(t.Extra).
		put("id", t.ID).
		put("name", t.Name).
		putIf(t.Domain != "", "domain", t.Domain).
		putIf(t.URL != "", "url", t.URL).
		putIf(t.Prefs != nil, "prefs", t.Prefs).
		marshal()
}
