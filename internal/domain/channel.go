package domain

type Channel struct {
	BaseConversation
	IsMember  bool
	IsGeneral bool
	Topic     Topic
	Purpose   Topic
}

func (c *Channel) Base() *BaseConversation { return &c.BaseConversation }
func (c *Channel) Kind() Kind              { return KindChannel }

func (c *Channel) schema() fields {
	f := c.baseSchema()
	f["is_member"] = field(&c.IsMember)
	f["is_general"] = field(&c.IsGeneral)
	f["topic"] = field(&c.Topic)
	f["purpose"] = field(&c.Purpose)
	return f
}

func NewChannel(p Partial) (*Channel, error) {
	c := &Channel{}
	if err := c.Update(p); err != nil {
		return nil, err
	}
	return c, nil
}

// Update merges p onto the channel using the typed schema.
func (c *Channel) Update(p Partial) error {
	return c.merge(c.schema(), p)
}

func (c *Channel) UnmarshalJSON(data []byte) error {
	p, err := partialOf(data)
	if err != nil {
		return err
	}
	*c = Channel{}
	return c.Update(p)
}

func (c Channel) MarshalJSON() ([]byte, error) {
	return c.baseObject().
		put("is_channel", true).
		put("is_member", c.IsMember).
		putIf(c.IsGeneral, "is_general", c.IsGeneral).
		putIf(c.Topic != Topic{}, "topic", c.Topic).
		putIf(c.Purpose != Topic{}, "purpose", c.Purpose).
		marshal()
}

type Group struct {
	BaseConversation
	IsOpen  bool
	Topic   Topic
	Purpose Topic
}

func (g *Group) Base() *BaseConversation { return &g.BaseConversation }
func (g *Group) Kind() Kind              { return KindGroup }

func (g *Group) schema() fields {
	f := g.baseSchema()
	f["is_open"] = field(&g.IsOpen)
	f["topic"] = field(&g.Topic)
	f["purpose"] = field(&g.Purpose)
	return f
}

func NewGroup(p Partial) (*Group, error) {
	g := &Group{}
	if err := g.Update(p); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) Update(p Partial) error {
	return g.merge(g.schema(), p)
}

func (g *Group) UnmarshalJSON(data []byte) error {
	p, err := partialOf(data)
	if err != nil {
		return err
	}
	*g = Group{}
	return g.Update(p)
}

func (g Group) MarshalJSON() ([]byte, error) {
	return g.baseObject().
		put("is_group", true).
		put("is_open", g.IsOpen).
		putIf(g.Topic != Topic{}, "topic", g.Topic).
		putIf(g.Purpose != Topic{}, "purpose", g.Purpose).
		marshal()
}
