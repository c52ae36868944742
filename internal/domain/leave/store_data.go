package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const requestColumns = `
    id, employee_id, employee_name, subject, leave_type,
    start_date, end_date, is_half_day, requested_days, reason, status,
    created_at, updated_at`

func (s *Store) GetRequest(ctx context.Context, requestID string) (LeaveRequest, error) {
	var req LeaveRequest
	err := s.DB.QueryRow(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, requestID).Scan(
		&req.ID, &req.EmployeeID, &req.EmployeeName, &req.Subject, &req.LeaveType,
		&req.StartDate, &req.EndDate, &req.IsHalfDay, &req.RequestedDays, &req.Reason, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}

	attachments, err := s.requestAttachments(ctx, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	req.Attachments = attachments
	return req, nil
}

func (s *Store) ListRequests(ctx context.Context, filter ListFilter) (ListResult, error) {
	query := `
    SELECT` + requestColumns + `
    FROM leave_requests
    WHERE 1=1`
	countQuery := `
    SELECT COUNT(1)
    FROM leave_requests
    WHERE 1=1`
	var args []any
	var countArgs []any

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		countArgs = append(countArgs, filter.EmployeeID)
		clause := fmt.Sprintf(" AND employee_id = $%d", len(args))
		query += clause
		countQuery += fmt.Sprintf(" AND employee_id = $%d", len(countArgs))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		countArgs = append(countArgs, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
		countQuery += fmt.Sprintf(" AND status = $%d", len(countArgs))
	}
	query += " ORDER BY created_at DESC, id"

	var total int
	if err := s.DB.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		total = 0
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.EmployeeName, &req.Subject, &req.LeaveType,
			&req.StartDate, &req.EndDate, &req.IsHalfDay, &req.RequestedDays, &req.Reason, &req.Status,
			&req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return ListResult{}, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}
	return ListResult{Requests: requests, Total: total}, nil
}

func (s *Store) CreateRequest(ctx context.Context, record LeaveRequest) (LeaveRequest, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests
      (employee_id, employee_name, subject, leave_type, start_date, end_date,
       is_half_day, requested_days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id, created_at, updated_at
  `, record.EmployeeID, record.EmployeeName, record.Subject, record.LeaveType,
		record.StartDate, record.EndDate, record.IsHalfDay, record.RequestedDays,
		record.Reason, record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return LeaveRequest{}, err
	}

	if err := s.replaceAttachments(ctx, record.ID, record.Attachments); err != nil {
		return LeaveRequest{}, err
	}
	return record, nil
}

func (s *Store) UpdateRequest(ctx context.Context, requestID string, record LeaveRequest) (LeaveRequest, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE leave_requests
    SET subject = $1, leave_type = $2, start_date = $3, end_date = $4,
        is_half_day = $5, requested_days = $6, reason = $7, updated_at = now()
    WHERE id = $8
    RETURNING`+requestColumns+`
  `, record.Subject, record.LeaveType, record.StartDate, record.EndDate,
		record.IsHalfDay, record.RequestedDays, record.Reason, requestID,
	).Scan(
		&record.ID, &record.EmployeeID, &record.EmployeeName, &record.Subject, &record.LeaveType,
		&record.StartDate, &record.EndDate, &record.IsHalfDay, &record.RequestedDays, &record.Reason, &record.Status,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}

	if err := s.replaceAttachments(ctx, requestID, record.Attachments); err != nil {
		return LeaveRequest{}, err
	}
	return record, nil
}

func (s *Store) UpdateRequestStatus(ctx context.Context, requestID, status string) (LeaveRequest, error) {
	var req LeaveRequest
	err := s.DB.QueryRow(ctx, `
    UPDATE leave_requests
    SET status = $1, updated_at = now()
    WHERE id = $2
    RETURNING`+requestColumns+`
  `, status, requestID).Scan(
		&req.ID, &req.EmployeeID, &req.EmployeeName, &req.Subject, &req.LeaveType,
		&req.StartDate, &req.EndDate, &req.IsHalfDay, &req.RequestedDays, &req.Reason, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

func (s *Store) DeleteRequest(ctx context.Context, requestID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_requests WHERE id = $1", requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) requestAttachments(ctx context.Context, requestID string) ([]Attachment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT name, url
    FROM leave_request_attachments
    WHERE leave_request_id = $1
    ORDER BY position
  `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.Name, &a.URL); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (s *Store) replaceAttachments(ctx context.Context, requestID string, attachments []Attachment) error {
	if _, err := s.DB.Exec(ctx, "DELETE FROM leave_request_attachments WHERE leave_request_id = $1", requestID); err != nil {
		return err
	}
	for position, attachment := range attachments {
		if _, err := s.DB.Exec(ctx, `
      INSERT INTO leave_request_attachments (leave_request_id, name, url, position)
      VALUES ($1,$2,$3,$4)
    `, requestID, attachment.Name, attachment.URL, position); err != nil {
			return err
		}
	}
	return nil
}
