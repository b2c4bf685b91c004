package client

// Leads is the store of /leads.
type Leads struct {
	*Collection[Lead]
}

func NewLeads(c *Client) *Leads {
	return &Leads{Collection: NewCollection[Lead](c, "/leads", "lead")}
}
