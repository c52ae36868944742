package leavehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Metrics *metrics.Metrics
}

func NewHandler(service *leave.Service, m *metrics.Metrics) *Handler {
	return &Handler{Service: service, Metrics: m}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Get("/policies", h.handleListPolicies)
		r.Get("/types", h.handleEligibleTypes)
		r.Get("/requests", h.handleListRequests)
		r.Post("/requests", h.handleCreateRequest)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Put("/requests/{requestID}", h.handleEditRequest)
		r.Delete("/requests/{requestID}", h.handleDeleteRequest)
		r.Post("/requests/{requestID}/status", h.handleTransition)
		r.Get("/requests/{requestID}/report", h.handleReport)
	})
}

type requestPayload struct {
	EmployeeID  string             `json:"employeeId"`
	Subject     string             `json:"subject"`
	LeaveType   string             `json:"leaveType"`
	StartDate   string             `json:"startDate"`
	EndDate     string             `json:"endDate"`
	IsHalfDay   bool               `json:"isHalfDay"`
	Reason      string             `json:"leaveReason"`
	Attachments []leave.Attachment `json:"attachments,omitempty"`
}

// toCandidate converts the wire payload into an engine candidate. Date
// parse failures are reported as field issues so the form can surface them
// alongside the engine's own findings.
func (p requestPayload) toCandidate() (leave.LeaveRequest, *leave.ValidationError) {
	candidate := leave.LeaveRequest{
		EmployeeID:  strings.TrimSpace(p.EmployeeID),
		Subject:     strings.TrimSpace(p.Subject),
		LeaveType:   strings.TrimSpace(p.LeaveType),
		IsHalfDay:   p.IsHalfDay,
		Reason:      strings.TrimSpace(p.Reason),
		Attachments: p.Attachments,
	}

	issues := &leave.ValidationError{}
	start, err := shared.ParseDate(p.StartDate)
	if err != nil {
		issues.Issues = append(issues.Issues, leave.FieldIssue{Field: "startDate", Reason: "must be a valid date in YYYY-MM-DD format"})
	}
	end, err := shared.ParseDate(p.EndDate)
	if err != nil {
		issues.Issues = append(issues.Issues, leave.FieldIssue{Field: "endDate", Reason: "must be a valid date in YYYY-MM-DD format"})
	}
	if len(issues.Issues) > 0 {
		return leave.LeaveRequest{}, issues
	}
	candidate.StartDate = start
	candidate.EndDate = end
	return candidate, nil
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	policies, err := h.Service.ListPolicies(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "policies_failed", "failed to list leave policies", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, policies, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEligibleTypes(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "employee id required", middleware.GetRequestID(r.Context()))
		return
	}

	types, resolved, err := h.Service.EligibleTypes(r.Context(), employeeID)
	if err != nil {
		h.failFromError(w, r, err, "types_failed", "failed to resolve leave types")
		return
	}
	api.Success(w, map[string]any{
		"types":          types,
		"policyResolved": resolved,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 100, 500)
	result, err := h.Service.ListRequests(r.Context(), leave.ListFilter{
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employeeId")),
		Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "requests_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result.Requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		payload.EmployeeID = user.EmployeeID
	}

	candidate, verr := payload.toCandidate()
	if verr != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), verr.Issues)
		return
	}

	created, err := h.Service.CreateRequest(r.Context(), candidate)
	if err != nil {
		h.failFromError(w, r, err, "request_create_failed", "failed to create request")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		h.failFromError(w, r, err, "request_get_failed", "failed to load request")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEditRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	candidate, verr := payload.toCandidate()
	if verr != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), verr.Issues)
		return
	}

	updated, err := h.Service.EditRequest(r.Context(), chi.URLParam(r, "requestID"), candidate)
	if err != nil {
		h.failFromError(w, r, err, "request_edit_failed", "failed to update request")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.DeleteRequest(r.Context(), chi.URLParam(r, "requestID")); err != nil {
		h.failFromError(w, r, err, "request_delete_failed", "failed to delete request")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type transitionPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload transitionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	record, changed, err := h.Service.TransitionRequest(r.Context(), requestID, strings.TrimSpace(payload.Status))
	if err != nil {
		h.countTransition("error", err)
		h.failFromError(w, r, err, "transition_failed", "failed to update status")
		return
	}
	if changed {
		h.countTransition("changed", nil)
	} else {
		h.countTransition("noop", nil)
	}

	api.Success(w, map[string]any{
		"request": record,
		"changed": changed,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	fileName, data, err := h.Service.ReportPDF(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		h.failFromError(w, r, err, "report_failed", "failed to render report")
		return
	}
	if h.Metrics != nil {
		h.Metrics.ReportsTotal.Inc()
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("report download write failed", "err", err)
	}
}

func (h *Handler) countTransition(outcome string, err error) {
	if h.Metrics == nil {
		return
	}
	if errors.Is(err, leave.ErrTransitionInFlight) {
		outcome = "conflict"
	}
	h.Metrics.TransitionsTotal.WithLabelValues(outcome).Inc()
}

// failFromError maps domain errors onto the response envelope. Validation
// failures carry every field issue; everything else is a single condition.
func (h *Handler) failFromError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	if verr, ok := leave.AsValidationError(err); ok {
		shared.FailValidation(w, requestID, verr.Issues)
		return
	}
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrTransitionInFlight):
		api.Fail(w, http.StatusConflict, "transition_in_flight", "a status change is already in progress", requestID)
	case errors.Is(err, leave.ErrUnavailable):
		api.Fail(w, http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable", requestID)
	default:
		slog.Warn("leave handler failure", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
