package leave

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"leavedesk/internal/domain/directory"
)

// DirectoryAPI is the slice of the employee directory the leave service
// needs. Employees are owned elsewhere and read-only here.
type DirectoryAPI interface {
	Get(ctx context.Context, employeeID string) (directory.Employee, error)
	List(ctx context.Context) ([]directory.Employee, error)
}

// Service wires the lifecycle engine, the policy catalog, the transition
// guard and the persistence boundary together. The engine itself stays
// pure; every side effect happens here.
type Service struct {
	Store     StoreAPI
	Directory DirectoryAPI

	guard *TransitionGuard

	mu      sync.RWMutex
	catalog *Catalog
}

func NewService(store StoreAPI, dir DirectoryAPI) *Service {
	return &Service{
		Store:     store,
		Directory: dir,
		guard:     NewTransitionGuard(),
	}
}

// LoadCatalog fetches the policy set once and caches it read-only. On
// failure the service keeps operating degraded: leave-type eligibility is
// not enforced until a later load succeeds.
func (s *Service) LoadCatalog(ctx context.Context) error {
	catalog, err := LoadPolicies(ctx, s.Store)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
	slog.Info("leave policy catalog loaded", "policies", catalog.Len())
	return nil
}

func (s *Service) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// resolvePolicy looks up the employee's policy. havePolicy is false when
// the catalog is not loaded, the employee has no policy reference, or the
// reference dangles; the engine then runs degraded.
func (s *Service) resolvePolicy(employee directory.Employee) (LeavePolicy, bool) {
	catalog := s.Catalog()
	if catalog == nil {
		return LeavePolicy{}, false
	}
	return catalog.ResolveForEmployee(employee)
}

// EligibleTypes returns the leave types the employee's policy offers, in
// canonical order. resolved is false in degraded mode, in which case the
// caller should warn but accept any type.
func (s *Service) EligibleTypes(ctx context.Context, employeeID string) ([]EligibleType, bool, error) {
	employee, err := s.Directory.Get(ctx, employeeID)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}
	policy, ok := s.resolvePolicy(employee)
	if !ok {
		return nil, false, nil
	}
	return EligibleLeaveTypes(policy), true, nil
}

// CreateRequest validates a candidate against the employee's policy,
// snapshots the employee name, and persists the finalized pending record.
func (s *Service) CreateRequest(ctx context.Context, candidate LeaveRequest) (LeaveRequest, error) {
	employee, err := s.Directory.Get(ctx, candidate.EmployeeID)
	if errors.Is(err, directory.ErrNotFound) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	candidate.EmployeeName = employee.Name

	policy, havePolicy := s.resolvePolicy(employee)
	if !havePolicy {
		slog.Warn("no leave policy resolved, accepting any leave type",
			"employeeId", employee.ID)
	}

	record, err := BuildCreate(candidate, policy, havePolicy)
	if err != nil {
		return LeaveRequest{}, err
	}
	return s.Store.CreateRequest(ctx, record)
}

// EditRequest applies a full edit to an existing record. The stored status
// is preserved; status changes go through TransitionRequest only.
func (s *Service) EditRequest(ctx context.Context, requestID string, candidate LeaveRequest) (LeaveRequest, error) {
	existing, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}

	var policy LeavePolicy
	havePolicy := false
	if employee, err := s.Directory.Get(ctx, existing.EmployeeID); err == nil {
		policy, havePolicy = s.resolvePolicy(employee)
	}

	record, err := BuildEdit(existing, candidate, policy, havePolicy)
	if err != nil {
		return LeaveRequest{}, err
	}
	return s.Store.UpdateRequest(ctx, requestID, record)
}

// TransitionRequest moves a record to newStatus under the single-flight
// guard. changed is false when the record already held newStatus; no write
// happens in that case.
func (s *Service) TransitionRequest(ctx context.Context, requestID, newStatus string) (LeaveRequest, bool, error) {
	if err := s.guard.Acquire(requestID); err != nil {
		return LeaveRequest{}, false, err
	}
	defer s.guard.Release(requestID)

	record, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return LeaveRequest{}, false, err
	}

	next, changed, err := Transition(record, newStatus)
	if err != nil {
		return LeaveRequest{}, false, err
	}
	if !changed {
		return next, false, nil
	}

	updated, err := s.Store.UpdateRequestStatus(ctx, requestID, next.Status)
	if err != nil {
		return LeaveRequest{}, false, err
	}
	return updated, true, nil
}

func (s *Service) GetRequest(ctx context.Context, requestID string) (LeaveRequest, error) {
	return s.Store.GetRequest(ctx, requestID)
}

func (s *Service) ListRequests(ctx context.Context, filter ListFilter) (ListResult, error) {
	return s.Store.ListRequests(ctx, filter)
}

func (s *Service) DeleteRequest(ctx context.Context, requestID string) error {
	return s.Store.DeleteRequest(ctx, requestID)
}

func (s *Service) ListPolicies(ctx context.Context) ([]LeavePolicy, error) {
	return s.Store.ListPolicies(ctx)
}

// ReportPDF renders the persisted record into the fixed-layout PDF and
// returns the artifact name alongside the bytes.
func (s *Service) ReportPDF(ctx context.Context, requestID string) (string, []byte, error) {
	record, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return "", nil, err
	}
	report := BuildReport(record)
	data, err := RenderPDF(report)
	if err != nil {
		return "", nil, err
	}
	return report.FileName("pdf"), data, nil
}
