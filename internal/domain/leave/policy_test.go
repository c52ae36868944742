package leave

import (
	"context"
	"errors"
	"testing"

	"leavedesk/internal/domain/directory"
)

type staticPolicySource struct {
	policies []LeavePolicy
	err      error
}

func (s staticPolicySource) ListPolicies(ctx context.Context) ([]LeavePolicy, error) {
	return s.policies, s.err
}

func TestEligibleLeaveTypesCanonicalOrder(t *testing.T) {
	policy := LeavePolicy{
		Allowances: map[string]int{
			TypePaternity: 7,
			TypeAnnual:    5,
			TypeSick:      10,
		},
	}

	types := EligibleLeaveTypes(policy)
	if len(types) != 3 {
		t.Fatalf("expected 3 eligible types, got %d", len(types))
	}
	expected := []EligibleType{
		{Type: TypeSick, Remaining: 10},
		{Type: TypeAnnual, Remaining: 5},
		{Type: TypePaternity, Remaining: 7},
	}
	for i, want := range expected {
		if types[i] != want {
			t.Fatalf("position %d: expected %+v, got %+v", i, want, types[i])
		}
	}
}

func TestEligibleLeaveTypesOmitsAbsentKeys(t *testing.T) {
	types := EligibleLeaveTypes(LeavePolicy{Allowances: map[string]int{TypeAnnual: 5}})
	if len(types) != 1 || types[0].Type != TypeAnnual {
		t.Fatalf("absent types must be omitted, got %+v", types)
	}
}

func TestResolveForEmployee(t *testing.T) {
	catalog := NewCatalog([]LeavePolicy{{ID: "pol-1", Name: "Standard"}})

	if _, ok := catalog.ResolveForEmployee(directory.Employee{ID: "e1"}); ok {
		t.Fatal("employee without policy reference must not resolve")
	}
	if _, ok := catalog.ResolveForEmployee(directory.Employee{ID: "e1", LeavePolicyID: "gone"}); ok {
		t.Fatal("dangling policy reference must not resolve")
	}
	policy, ok := catalog.ResolveForEmployee(directory.Employee{ID: "e1", LeavePolicyID: "pol-1"})
	if !ok || policy.Name != "Standard" {
		t.Fatalf("expected Standard policy, got %+v ok=%v", policy, ok)
	}
}

func TestLoadPoliciesUnavailable(t *testing.T) {
	_, err := LoadPolicies(context.Background(), staticPolicySource{err: errors.New("conn refused")})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLoadPoliciesBuildsCatalog(t *testing.T) {
	catalog, err := LoadPolicies(context.Background(), staticPolicySource{policies: []LeavePolicy{
		{ID: "pol-1"}, {ID: "pol-2"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("expected 2 policies, got %d", catalog.Len())
	}
	if _, ok := catalog.Get("pol-2"); !ok {
		t.Fatal("expected pol-2 in catalog")
	}
}
