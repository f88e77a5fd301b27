package network

import (
	"testing"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
)

func TestTypeSet(t *testing.T) {
	s := NewTypeSet(Supplier, Retail)
	if !s.Has(Supplier) || !s.Has(Retail) || s.Has(Warehouse) {
		t.Errorf("NewTypeSet = %s", s)
	}
	if s.With(Warehouse).String() != "supplier,warehouse,retail" {
		t.Errorf("With = %s", s.With(Warehouse))
	}
	if s.Without(Supplier).String() != "retail" {
		t.Errorf("Without = %s", s.Without(Supplier))
	}
	if s.Toggle(Retail).Toggle(Retail) != s {
		t.Error("double toggle should be identity")
	}
	if s.Has(NodeType("depot")) {
		t.Error("unknown type should never be enabled")
	}
	if len(AllTypes.Types()) != len(NodeTypes) {
		t.Errorf("AllTypes = %s", AllTypes)
	}
}

func TestParseTypeSet(t *testing.T) {
	tests := []struct {
		in      string
		want    TypeSet
		wantErr bool
	}{
		{"", AllTypes, false},
		{"supplier", NewTypeSet(Supplier), false},
		{"Retail, customer", NewTypeSet(Retail, Customer), false},
		{"supplier,depot", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTypeSet(tt.in)
		if tt.wantErr {
			if !apperrors.Is(err, apperrors.ErrCodeInvalidNodeType) {
				t.Errorf("ParseTypeSet(%q) error = %v, want INVALID_NODE_TYPE", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTypeSet(%q) = %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
}

func TestTypeSetText(t *testing.T) {
	b, _ := NewTypeSet(Warehouse, Customer).MarshalText()
	var s TypeSet
	if err := s.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if s != NewTypeSet(Warehouse, Customer) {
		t.Errorf("round trip = %s", s)
	}
}

func TestFilterAllows(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		node   Node
		want   bool
	}{
		{"default normal", DefaultFilter(), node("a", Supplier, Normal, 0, 0), true},
		{"type disabled", DefaultFilter().ToggleType(Supplier), node("a", Supplier, Critical, 0, 0), false},
		{"issues hides normal", DefaultFilter().ToggleIssues(), node("a", Retail, Normal, 0, 0), false},
		{"issues keeps warning", DefaultFilter().ToggleIssues(), node("a", Retail, Warning, 0, 0), true},
		{"issues keeps success", DefaultFilter().ToggleIssues(), node("a", Retail, Success, 0, 0), true},
		{"empty set", Filter{}, node("a", Customer, Critical, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Allows(tt.node); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterToggleIsCopy(t *testing.T) {
	f := DefaultFilter()
	g := f.ToggleType(Retail).ToggleIssues()
	if !f.Types.Has(Retail) || f.IssuesOnly {
		t.Error("toggles should not mutate the receiver")
	}
	if g.Types.Has(Retail) || !g.IssuesOnly {
		t.Errorf("g = %+v", g)
	}
}
