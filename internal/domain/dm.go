package domain

// DM is a direct-message session. User is the counterpart's user id.
type DM struct {
	BaseConversation
	User   string
	IsOpen bool
}

func (d *DM) Base() *BaseConversation { return &d.BaseConversation }
func (d *DM) Kind() Kind              { return KindDM }

func (d *DM) schema() fields {
	f := d.baseSchema()
	f["user"] = field(&d.User)
	f["is_open"] = field(&d.IsOpen)
	return f
}

func NewDM(p Partial) (*DM, error) {
	d := &DM{}
	if err := d.Update(p); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DM) Update(p Partial) error {
	return d.merge(d.schema(), p)
}

func (d *DM) UnmarshalJSON(data []byte) error {
	p, err := partialOf(data)
	if err != nil {
		return err
	}
	*d = DM{}
	return d.Update(p)
}

func (d DM) MarshalJSON() ([]byte, error) {
	return d.baseObject().
		put("is_im", true).
		put("user", d.User).
		put("is_open", d.IsOpen).
		marshal()
}
