package domain

// Self identifies the account the session is connected as.
type Self struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is the full workspace state delivered when a session starts.
type Snapshot struct {
	Self     *Self      `json:"self,omitempty"`
	Team     *Team      `json:"team,omitempty"`
	Users    []*User    `json:"users"`
	Channels []*Channel `json:"channels"`
	Groups   []*Group   `json:"groups"`
	IMs      []*DM      `json:"ims"`
	Bots     []*Bot     `json:"bots"`
}
