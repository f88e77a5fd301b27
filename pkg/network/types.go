package network

import (
	"strings"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
)

// NodeType is the role a node plays in the supply chain.
type NodeType string

// Node types, upstream to downstream.
const (
	Supplier     NodeType = "supplier"
	Warehouse    NodeType = "warehouse"
	Distribution NodeType = "distribution"
	Retail       NodeType = "retail"
	Customer     NodeType = "customer"
)

// NodeTypes lists every node type in upstream-to-downstream order.
var NodeTypes = []NodeType{Supplier, Warehouse, Distribution, Retail, Customer}

// ParseNodeType converts a type name (case-insensitive) into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	switch NodeType(strings.ToLower(strings.TrimSpace(s))) {
	case Supplier:
		return Supplier, nil
	case Warehouse:
		return Warehouse, nil
	case Distribution:
		return Distribution, nil
	case Retail:
		return Retail, nil
	case Customer:
		return Customer, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidNodeType,
			"invalid node type: %q (must be one of: supplier, warehouse, distribution, retail, customer)", s)
	}
}

// Plural returns the filter-button label for the type.
func (t NodeType) Plural() string {
	switch t {
	case Supplier:
		return "Suppliers"
	case Warehouse:
		return "Warehouses"
	case Distribution:
		return "Distribution"
	case Retail:
		return "Retail"
	case Customer:
		return "Customers"
	default:
		return string(t)
	}
}

// Status is the health of a node or connection.
type Status string

// Statuses.
const (
	Normal   Status = "normal"
	Warning  Status = "warning"
	Critical Status = "critical"
	Success  Status = "success"
)

// Statuses lists every status.
var Statuses = []Status{Normal, Warning, Critical, Success}

// ParseStatus converts a status name (case-insensitive) into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case Normal:
		return Normal, nil
	case Warning:
		return Warning, nil
	case Critical:
		return Critical, nil
	case Success:
		return Success, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidStatus,
			"invalid status: %q (must be one of: normal, warning, critical, success)", s)
	}
}

// IsIssue reports whether the status survives the "issues only" filter.
func (s Status) IsIssue() bool {
	switch s {
	case Normal:
		return false
	case Warning, Critical, Success:
		return true
	default:
		return true
	}
}

// Point is a position in percent of the map canvas.
// Y may exceed 100 for maps taller than the viewport.
type Point struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Metric is a display-only label/value pair shown on a node card.
type Metric struct {
	Label string `json:"label" toml:"label" yaml:"label"`
	Value string `json:"value" toml:"value" yaml:"value"`
}

// ParseMetric parses "Label=Value". Surrounding blanks are trimmed.
func ParseMetric(s string) (Metric, bool) {
	label, value, ok := strings.Cut(s, "=")
	if !ok {
		return Metric{}, false
	}
	return Metric{Label: strings.TrimSpace(label), Value: strings.TrimSpace(value)}, true
}

// String formats the metric as "Label=Value".
func (m Metric) String() string { return m.Label + "=" + m.Value }

// Node is a positioned entity in the supply-chain map.
type Node struct {
	ID       string   `json:"id" toml:"id" yaml:"id"`
	Name     string   `json:"name" toml:"name" yaml:"name"`
	Type     NodeType `json:"type" toml:"type" yaml:"type"`
	Status   Status   `json:"status" toml:"status" yaml:"status"`
	Position Point    `json:"position" toml:"position" yaml:"position"`
	Metrics  []Metric `json:"metrics,omitempty" toml:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// DisplayName returns the node name, falling back to the ID.
func (n Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Connection is a directed, status-tagged edge between two node IDs.
type Connection struct {
	From   string `json:"from" toml:"from" yaml:"from"`
	To     string `json:"to" toml:"to" yaml:"to"`
	Status Status `json:"status" toml:"status" yaml:"status"`
}

// ValidateNetwork checks the network invariants: node IDs are unique and every
// type and status belongs to its enumeration. Dangling connection
// references are not an error.
func ValidateNetwork(nodes []Node, conns []Connection) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "node with empty id")
		}
		if _, dup := seen[n.ID]; dup {
			return apperrors.New(apperrors.ErrCodeDuplicateNode, "duplicate node id: %s", n.ID)
		}
		seen[n.ID] = struct{}{}
		if _, err := ParseNodeType(string(n.Type)); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidNodeType, err, "node %s", n.ID)
		}
		if _, err := ParseStatus(string(n.Status)); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidStatus, err, "node %s", n.ID)
		}
	}
	for i, c := range conns {
		if _, err := ParseStatus(string(c.Status)); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidStatus, err, "connection %d (%s→%s)", i, c.From, c.To)
		}
	}
	return nil
}
