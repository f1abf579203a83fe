package leaverequest

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository mixes gorm reads with raw SQL for everything the state machine
// mutates: creation, the request row lock and the compare-and-set
// transitions that keep concurrent approvals from double-finalizing.
//
//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRequest(ctx context.Context, r *LeaveRequest) error
	CreateApprovals(ctx context.Context, approvals []LeaveApproval) error

	// GetRequestForUpdate locks the request row; every cancel/approve/deny
	// path takes this lock first so terminal transitions serialize.
	GetRequestForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error)

	FindAllByCompany(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)

	FindPendingApproval(ctx context.Context, requestID, approverID string) (*LeaveApproval, error)
	MarkApproval(ctx context.Context, id uuid.UUID, status, comments string) (bool, error)
	CountPendingApprovals(ctx context.Context, requestID string) (int, error)

	CancelRequest(ctx context.Context, id uuid.UUID, fromStatus, reason string) (bool, error)
	TransitionRequest(ctx context.Context, id uuid.UUID, toStatus string) (bool, error)
}

type repository struct {
	gdb *gorm.DB
	db  *sql.DB
	tx  *sql.Tx
}

func NewRepository(gdb *gorm.DB, db *sql.DB) Repository {
	return &repository{gdb: gdb, db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{gdb: r.gdb, db: r.db, tx: tx}
}

func (r *repository) CreateRequest(ctx context.Context, req *LeaveRequest) error {
	query := `
INSERT INTO leave_requests (
	id, company_id, employee_id, leave_type_id, request_number,
	start_date, end_date, total_days, reason, status, submitted_at,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		req.ID, req.CompanyID, req.EmployeeID, req.LeaveTypeID, req.RequestNumber,
		req.StartDate, req.EndDate, req.TotalDays, req.Reason, req.Status, req.SubmittedAt,
	)
	return err
}

func (r *repository) CreateApprovals(ctx context.Context, approvals []LeaveApproval) error {
	query := `
INSERT INTO leave_approvals (
	id, request_id, approver_id, level, sequence, status, comments, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
`
	exec := r.execer()
	for i := range approvals {
		a := &approvals[i]
		if _, err := exec.ExecContext(
			ctx, query,
			a.ID, a.RequestID, a.ApproverID, a.Level, a.Sequence, a.Status, a.Comments,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) GetRequestForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	query := `
SELECT
	id, company_id, employee_id, leave_type_id, request_number,
	start_date, end_date, total_days, COALESCE(reason, ''), status, submitted_at
FROM leave_requests
WHERE company_id = $1 AND id = $2
FOR UPDATE
`
	var req LeaveRequest
	err := r.querier().QueryRowContext(ctx, query, companyID, id).Scan(
		&req.ID, &req.CompanyID, &req.EmployeeID, &req.LeaveTypeID, &req.RequestNumber,
		&req.StartDate, &req.EndDate, &req.TotalDays, &req.Reason, &req.Status, &req.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error) {
	q := r.gdb.WithContext(ctx).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("company_id = ?", companyID)
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}

	var requests []LeaveRequest
	err := q.Order("submitted_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.gdb.WithContext(ctx).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("company_id = ?", companyID).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindPendingApproval(ctx context.Context, requestID, approverID string) (*LeaveApproval, error) {
	query := `
SELECT id, request_id, approver_id, level, sequence, status, COALESCE(comments, '')
FROM leave_approvals
WHERE request_id = $1 AND approver_id = $2 AND status = $3
`
	var a LeaveApproval
	err := r.querier().QueryRowContext(ctx, query, requestID, approverID, ApprovalPending).Scan(
		&a.ID, &a.RequestID, &a.ApproverID, &a.Level, &a.Sequence, &a.Status, &a.Comments,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// MarkApproval flips one pending row; the status predicate makes a replayed
// decision a no-op instead of a double transition.
func (r *repository) MarkApproval(ctx context.Context, id uuid.UUID, status, comments string) (bool, error) {
	query := `
UPDATE leave_approvals
SET status = $2, comments = $3, responded_at = NOW(), updated_at = NOW()
WHERE id = $1 AND status = $4
`
	res, err := r.execer().ExecContext(ctx, query, id, status, comments, ApprovalPending)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) CountPendingApprovals(ctx context.Context, requestID string) (int, error) {
	query := `SELECT COUNT(*) FROM leave_approvals WHERE request_id = $1 AND status = $2`
	var count int
	err := r.querier().QueryRowContext(ctx, query, requestID, ApprovalPending).Scan(&count)
	return count, err
}

func (r *repository) CancelRequest(ctx context.Context, id uuid.UUID, fromStatus, reason string) (bool, error) {
	query := `
UPDATE leave_requests
SET status = $2, reason = $3, cancelled_at = NOW(), updated_at = NOW()
WHERE id = $1 AND status = $4
`
	res, err := r.execer().ExecContext(ctx, query, id, StatusCancelled, reason, fromStatus)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// TransitionRequest is the single idempotent terminal transition out of
// PENDING. The status predicate is the compare-and-set that keeps two
// concurrent final approvals from both finalizing.
func (r *repository) TransitionRequest(ctx context.Context, id uuid.UUID, toStatus string) (bool, error) {
	var query string
	switch toStatus {
	case StatusApproved:
		query = `
UPDATE leave_requests
SET status = $2, approved_at = NOW(), updated_at = NOW()
WHERE id = $1 AND status = $3
`
	case StatusDenied:
		query = `
UPDATE leave_requests
SET status = $2, denied_at = NOW(), updated_at = NOW()
WHERE id = $1 AND status = $3
`
	default:
		query = `
UPDATE leave_requests
SET status = $2, updated_at = NOW()
WHERE id = $1 AND status = $3
`
	}

	res, err := r.execer().ExecContext(ctx, query, id, toStatus, StatusPending)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
