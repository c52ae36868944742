package leave

import (
	"context"
	"strings"

	"leavedesk/internal/domain/directory"
)

// PolicySource lists every known leave policy. Implemented by the pgx
// store; tests substitute an in-memory source.
type PolicySource interface {
	ListPolicies(ctx context.Context) ([]LeavePolicy, error)
}

// Catalog holds the fetched policy set keyed by ID. It is populated once
// and read-only afterwards; no component mutates it.
type Catalog struct {
	policies map[string]LeavePolicy
}

// LoadPolicies fetches all policies from source and builds the catalog.
// A transport failure surfaces as ErrUnavailable so callers can show a
// transient failure instead of blocking; they then operate degraded.
func LoadPolicies(ctx context.Context, source PolicySource) (*Catalog, error) {
	policies, err := source.ListPolicies(ctx)
	if err != nil {
		return nil, ErrUnavailable
	}
	return NewCatalog(policies), nil
}

func NewCatalog(policies []LeavePolicy) *Catalog {
	byID := make(map[string]LeavePolicy, len(policies))
	for _, p := range policies {
		byID[p.ID] = p
	}
	return &Catalog{policies: byID}
}

// ResolveForEmployee returns the policy the employee references. ok is
// false when the employee has no policy reference or it dangles; the
// caller then runs in degraded mode.
func (c *Catalog) ResolveForEmployee(employee directory.Employee) (LeavePolicy, bool) {
	if c == nil || strings.TrimSpace(employee.LeavePolicyID) == "" {
		return LeavePolicy{}, false
	}
	policy, ok := c.policies[employee.LeavePolicyID]
	return policy, ok
}

// Get looks a policy up by ID.
func (c *Catalog) Get(id string) (LeavePolicy, bool) {
	if c == nil {
		return LeavePolicy{}, false
	}
	policy, ok := c.policies[id]
	return policy, ok
}

// Len reports how many policies the catalog holds.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.policies)
}

// EligibleLeaveTypes returns the types the policy defines, paired with
// their remaining allowance, in canonical order. Absent types are omitted
// rather than defaulted to zero; the order drives the form's selector.
func EligibleLeaveTypes(policy LeavePolicy) []EligibleType {
	out := make([]EligibleType, 0, len(policy.Allowances))
	for _, name := range CanonicalTypes {
		if remaining, ok := policy.Allowances[name]; ok {
			out = append(out, EligibleType{Type: name, Remaining: remaining})
		}
	}
	return out
}
