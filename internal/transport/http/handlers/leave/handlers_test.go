package leavehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/directory"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

type memDirectory struct{}

func (memDirectory) Get(ctx context.Context, id string) (directory.Employee, error) {
	if id == "emp-1" {
		return directory.Employee{ID: "emp-1", Name: "Dana Smith", LeavePolicyID: "pol-1"}, nil
	}
	return directory.Employee{}, directory.ErrNotFound
}

func (memDirectory) List(ctx context.Context) ([]directory.Employee, error) {
	return []directory.Employee{{ID: "emp-1", Name: "Dana Smith", LeavePolicyID: "pol-1"}}, nil
}

type memStore struct {
	mu       sync.Mutex
	seq      int
	requests map[string]leave.LeaveRequest
}

func newMemStore() *memStore {
	return &memStore{requests: make(map[string]leave.LeaveRequest)}
}

func (m *memStore) GetRequest(ctx context.Context, id string) (leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req, ok := m.requests[id]; ok {
		return req, nil
	}
	return leave.LeaveRequest{}, leave.ErrNotFound
}

func (m *memStore) ListRequests(ctx context.Context, filter leave.ListFilter) (leave.ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []leave.LeaveRequest
	for _, req := range m.requests {
		out = append(out, req)
	}
	return leave.ListResult{Requests: out, Total: len(out)}, nil
}

func (m *memStore) CreateRequest(ctx context.Context, record leave.LeaveRequest) (leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	record.ID = fmt.Sprintf("req-%d", m.seq)
	m.requests[record.ID] = record
	return record, nil
}

func (m *memStore) UpdateRequest(ctx context.Context, id string, record leave.LeaveRequest) (leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return leave.LeaveRequest{}, leave.ErrNotFound
	}
	record.ID = id
	m.requests[id] = record
	return record, nil
}

func (m *memStore) UpdateRequestStatus(ctx context.Context, id, status string) (leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrNotFound
	}
	req.Status = status
	m.requests[id] = req
	return req, nil
}

func (m *memStore) DeleteRequest(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return leave.ErrNotFound
	}
	delete(m.requests, id)
	return nil
}

func (m *memStore) ListPolicies(ctx context.Context) ([]leave.LeavePolicy, error) {
	return []leave.LeavePolicy{{
		ID:         "pol-1",
		Name:       "Standard",
		Allowances: map[string]int{leave.TypeSick: 10, leave.TypeAnnual: 5},
	}}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	service := leave.NewService(newMemStore(), memDirectory{})
	if err := service.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	router.Route("/api/v1", func(r chi.Router) {
		NewHandler(service, nil).RegisterRoutes(r)
	})
	return router
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", EmployeeID: "emp-1"}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope api.Envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	}
	return rec, envelope
}

func createPayload() map[string]any {
	return map[string]any{
		"employeeId":  "emp-1",
		"subject":     "Family trip",
		"leaveType":   "annual",
		"startDate":   "2025-03-03",
		"endDate":     "2025-03-05",
		"isHalfDay":   false,
		"leaveReason": "Travelling with family",
	}
}

func TestCreateRequestEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/leave/requests", token, createPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := json.Marshal(envelope.Data)
	var created leave.LeaveRequest
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.Status != leave.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.RequestedDays != 3 {
		t.Fatalf("expected 3 requested days, got %v", created.RequestedDays)
	}
	if created.EmployeeName != "Dana Smith" {
		t.Fatalf("expected name snapshot, got %q", created.EmployeeName)
	}
}

func TestCreateRequestRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/leave/requests", "", createPayload())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateRequestValidationFailure(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	payload := createPayload()
	payload["startDate"] = "2025-03-10"
	payload["endDate"] = "2025-03-03"

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/leave/requests", token, payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %+v", envelope.Error)
	}
	if !strings.Contains(rec.Body.String(), "startDate") || !strings.Contains(rec.Body.String(), "endDate") {
		t.Fatalf("expected date fields in error details: %s", rec.Body.String())
	}
}

func TestTransitionEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/leave/requests", token, createPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}
	data, _ := json.Marshal(envelope.Data)
	var created leave.LeaveRequest
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	// Same-status transition reports changed=false.
	rec, envelope = doJSON(t, router, http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/status", token,
		map[string]string{"status": "pending"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Changed bool `json:"changed"`
	}
	data, _ = json.Marshal(envelope.Data)
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Changed {
		t.Fatal("same-status transition must report changed=false")
	}

	rec, envelope = doJSON(t, router, http.MethodPost, "/api/v1/leave/requests/"+created.ID+"/status", token,
		map[string]string{"status": "approved"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ = json.Marshal(envelope.Data)
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Changed {
		t.Fatal("expected changed=true for a real transition")
	}
}

func TestTransitionUnknownRequest(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/leave/requests/req-404/status", token,
		map[string]string{"status": "approved"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEligibleTypesEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/leave/types?employeeId=emp-1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result struct {
		Types          []leave.EligibleType `json:"types"`
		PolicyResolved bool                 `json:"policyResolved"`
	}
	data, _ := json.Marshal(envelope.Data)
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.PolicyResolved {
		t.Fatal("expected policy to resolve")
	}
	if len(result.Types) != 2 || result.Types[0].Type != leave.TypeSick || result.Types[1].Type != leave.TypeAnnual {
		t.Fatalf("unexpected types order %+v", result.Types)
	}
}

func TestReportEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/leave/requests", token, createPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}
	data, _ := json.Marshal(envelope.Data)
	var created leave.LeaveRequest
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leave/requests/"+created.ID+"/report", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	reportRec := httptest.NewRecorder()
	router.ServeHTTP(reportRec, req)

	if reportRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", reportRec.Code)
	}
	if ct := reportRec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", ct)
	}
	disposition := reportRec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "Dana Smith_Leave_Details.pdf") {
		t.Fatalf("unexpected disposition %q", disposition)
	}
	if !bytes.HasPrefix(reportRec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected pdf payload")
	}
}
