package leave

import "context"

// ListFilter narrows a request listing. Zero values mean "no filter".
type ListFilter struct {
	EmployeeID string
	Status     string
	Limit      int
	Offset     int
}

type ListResult struct {
	Requests []LeaveRequest
	Total    int
}

// StoreAPI is the persistence boundary for leave requests. The pgx Store
// implements it; tests substitute an in-memory fake.
type StoreAPI interface {
	GetRequest(ctx context.Context, requestID string) (LeaveRequest, error)
	ListRequests(ctx context.Context, filter ListFilter) (ListResult, error)
	CreateRequest(ctx context.Context, record LeaveRequest) (LeaveRequest, error)
	UpdateRequest(ctx context.Context, requestID string, record LeaveRequest) (LeaveRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID, status string) (LeaveRequest, error)
	DeleteRequest(ctx context.Context, requestID string) error
	ListPolicies(ctx context.Context) ([]LeavePolicy, error)
}
