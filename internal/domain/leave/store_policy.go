package leave

import "context"

// ListPolicies loads every policy with its allowances assembled into the
// per-type map. Policies without allowance rows still appear, offering no
// leave types.
func (s *Store) ListPolicies(ctx context.Context) ([]LeavePolicy, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name
    FROM leave_policies
    ORDER BY name, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []LeavePolicy
	index := make(map[string]int)
	for rows.Next() {
		var p LeavePolicy
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		p.Allowances = make(map[string]int)
		index[p.ID] = len(policies)
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	allowanceRows, err := s.DB.Query(ctx, `
    SELECT policy_id, leave_type, days
    FROM leave_policy_allowances
  `)
	if err != nil {
		return nil, err
	}
	defer allowanceRows.Close()

	for allowanceRows.Next() {
		var policyID, leaveType string
		var days int
		if err := allowanceRows.Scan(&policyID, &leaveType, &days); err != nil {
			return nil, err
		}
		if i, ok := index[policyID]; ok {
			policies[i].Allowances[leaveType] = days
		}
	}
	return policies, allowanceRows.Err()
}
