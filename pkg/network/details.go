package network

// Direction tags a link in the detail panel relative to the selected node.
type Direction string

const (
	// Upstream links point into the selected node.
	Upstream Direction = "upstream"
	// Downstream links leave the selected node.
	Downstream Direction = "downstream"
)

// Prefix returns the panel label for the direction.
func (d Direction) Prefix() string {
	switch d {
	case Upstream:
		return "From"
	case Downstream:
		return "To"
	default:
		return ""
	}
}

// Link is a connection incident to the selected node.
type Link struct {
	Direction Direction `json:"direction"`
	Peer      Node      `json:"peer"`
	Status    Status    `json:"status"`
}

// Details is the content of the detail panel for one node.
type Details struct {
	Node  Node   `json:"node"`
	Links []Link `json:"links"`
}

// Describe builds the detail panel for the node with the given ID.
//
// It works on the unfiltered sets so that links to hidden nodes still show
// up. Links are listed in connection order. A connection whose peer node
// does not exist is skipped. A self-loop is reported once, as upstream.
func Describe(nodes []Node, conns []Connection, selectedID string) (Details, bool) {
	if selectedID == "" {
		return Details{}, false
	}
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}
	selected, ok := byID[selectedID]
	if !ok {
		return Details{}, false
	}

	d := Details{Node: selected, Links: []Link{}}
	for _, c := range conns {
		var (
			dir    Direction
			peerID string
		)
		switch selectedID {
		case c.To:
			dir, peerID = Upstream, c.From
		case c.From:
			dir, peerID = Downstream, c.To
		default:
			continue
		}
		peer, ok := byID[peerID]
		if !ok {
			continue
		}
		d.Links = append(d.Links, Link{Direction: dir, Peer: peer, Status: c.Status})
	}
	return d, true
}

// ToggleSelection returns the new selection after clicking id: clicking the
// selected node clears the selection, clicking any other node selects it.
func ToggleSelection(current, id string) string {
	if current == id {
		return ""
	}
	return id
}
