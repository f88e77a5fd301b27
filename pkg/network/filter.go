package network

import "strings"

// TypeSet is an immutable set of enabled node types.
type TypeSet uint8

func typeBit(t NodeType) TypeSet {
	switch t {
	case Supplier:
		return 1 << 0
	case Warehouse:
		return 1 << 1
	case Distribution:
		return 1 << 2
	case Retail:
		return 1 << 3
	case Customer:
		return 1 << 4
	default:
		return 0
	}
}

// AllTypes enables every node type.
const AllTypes TypeSet = 1<<5 - 1

// NewTypeSet builds a set from the given types. Unknown types are ignored.
func NewTypeSet(types ...NodeType) TypeSet {
	var s TypeSet
	for _, t := range types {
		s |= typeBit(t)
	}
	return s
}

// Has reports whether t is enabled.
func (s TypeSet) Has(t NodeType) bool {
	bit := typeBit(t)
	return bit != 0 && s&bit != 0
}

// With returns a copy of s with t enabled.
func (s TypeSet) With(t NodeType) TypeSet { return s | typeBit(t) }

// Without returns a copy of s with t disabled.
func (s TypeSet) Without(t NodeType) TypeSet { return s &^ typeBit(t) }

// Toggle returns a copy of s with t flipped.
func (s TypeSet) Toggle(t NodeType) TypeSet { return s ^ typeBit(t) }

// Types returns the enabled types in upstream-to-downstream order.
func (s TypeSet) Types() []NodeType {
	var out []NodeType
	for _, t := range NodeTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String returns the enabled types as a comma-separated list.
func (s TypeSet) String() string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

// ParseTypeSet parses a comma-separated list of node types.
// An empty string enables every type.
func ParseTypeSet(s string) (TypeSet, error) {
	if strings.TrimSpace(s) == "" {
		return AllTypes, nil
	}
	var set TypeSet
	for _, part := range strings.Split(s, ",") {
		t, err := ParseNodeType(part)
		if err != nil {
			return 0, err
		}
		set = set.With(t)
	}
	return set, nil
}

// Filter selects which nodes are drawn.
type Filter struct {
	Types      TypeSet `json:"types"`
	IssuesOnly bool    `json:"issues_only"`
}

// DefaultFilter enables every node type and shows all statuses.
func DefaultFilter() Filter {
	return Filter{Types: AllTypes}
}

// Allows reports whether n passes the filter: its type is enabled and, when
// IssuesOnly is set, its status is not normal.
func (f Filter) Allows(n Node) bool {
	if !f.Types.Has(n.Type) {
		return false
	}
	if f.IssuesOnly && !n.Status.IsIssue() {
		return false
	}
	return true
}

// ToggleIssues returns a copy of f with IssuesOnly flipped.
func (f Filter) ToggleIssues() Filter {
	f.IssuesOnly = !f.IssuesOnly
	return f
}

// ToggleType returns a copy of f with t flipped.
func (f Filter) ToggleType(t NodeType) Filter {
	f.Types = f.Types.Toggle(t)
	return f
}

// MarshalText encodes the set as its comma-separated form.
func (s TypeSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a comma-separated list of types.
func (s *TypeSet) UnmarshalText(b []byte) error {
	set, err := ParseTypeSet(string(b))
	if err != nil {
		return err
	}
	*s = set
	return nil
}
