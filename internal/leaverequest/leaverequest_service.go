package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-pto/internal/employee"
	"go-pto/internal/events"
	"go-pto/internal/leavebalance"
	leavebalanceerrors "go-pto/internal/leavebalance/errors"
	leaverequesterrors "go-pto/internal/leaverequest/errors"
	"go-pto/internal/leavetype"
	"go-pto/internal/messaging/kafka"
	"go-pto/internal/shared/apperror"
	"go-pto/internal/shared/contextutil"
	"go-pto/internal/shared/counter"
)

const cancellationWindow = 24 * time.Hour

// EmployeeDirectory and TypeCatalog are the two read-side lookups the
// lifecycle needs from other modules.
type EmployeeDirectory interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error)
}

type TypeCatalog interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error)
}

type Service interface {
	Submit(ctx context.Context, companyID, employeeID string, req SubmitLeaveRequest) (*LeaveRequestResponse, error)
	Cancel(ctx context.Context, companyID, actorID, requestID string, req CancelLeaveRequest) (*LeaveRequestResponse, error)
	Approve(ctx context.Context, companyID, approverID, requestID string, req ApproveLeaveRequest) (*LeaveRequestResponse, error)
	Deny(ctx context.Context, companyID, approverID, requestID string, req DenyLeaveRequest) (*LeaveRequestResponse, error)
	GetAll(ctx context.Context, companyID, employeeID string) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, companyID, id string) (*LeaveRequestResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    *leavebalance.Ledger
	resolver  *leavebalance.Resolver
	employees EmployeeDirectory
	types     TypeCatalog
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*service)

// WithClock overrides the service's time source.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger *leavebalance.Ledger,
	resolver *leavebalance.Resolver,
	employees EmployeeDirectory,
	types TypeCatalog,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger *zap.Logger,
	opts ...Option,
) Service {
	s := &service{
		db:        db,
		repo:      repo,
		ledger:    ledger,
		resolver:  resolver,
		employees: employees,
		types:     types,
		counter:   counterRepo,
		outbox:    outboxRepo,
		logger:    logger.Named("leaverequest_service"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Submit(ctx context.Context, companyID, employeeID string, req SubmitLeaveRequest) (*LeaveRequestResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, apperror.InvalidField("company_id")
	}

	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validateDays(req.TotalDays, req.DayOptions); err != nil {
		return nil, err
	}

	lt, err := s.types.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaverequesterrors.ErrLeaveTypeUnavailable
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load leave type", 500)
	}
	if !lt.IsActive {
		return nil, leaverequesterrors.ErrLeaveTypeUnavailable
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load employee", 500)
	}

	// The chain is planned before anything is written; a dead-end
	// configuration fails the submission outright.
	chain, err := BuildChain(emp.ManagerID, lt)
	if err != nil {
		return nil, err
	}

	year := startDate.Year()
	available, err := s.resolver.Resolve(ctx, companyID, employeeID, req.LeaveTypeID, year)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to resolve balance", 500)
	}
	if req.TotalDays.GreaterThan(available) {
		return nil, leavebalanceerrors.ErrInsufficientBalance.WithDetails(map[string]string{
			"available": available.String(),
			"requested": req.TotalDays.String(),
		})
	}

	seq, err := s.counter.GetNextValue(ctx, companyID, "leave_request_number")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to allocate request number", 500)
	}

	now := s.now().UTC()
	request := &LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    emp.ID,
		LeaveTypeID:   lt.ID,
		RequestNumber: requestNumber(employeeID, now, seq),
		StartDate:     startDate,
		EndDate:       endDate,
		TotalDays:     req.TotalDays,
		Reason:        req.Reason,
		Status:        StatusPending,
		SubmittedAt:   now,
	}

	approvals := make([]LeaveApproval, 0, len(chain))
	approverIDs := make([]string, 0, len(chain))
	for _, step := range chain {
		approvals = append(approvals, LeaveApproval{
			ID:         uuid.New(),
			RequestID:  request.ID,
			ApproverID: step.ApproverID,
			Level:      step.Level,
			Sequence:   step.Sequence,
			Status:     ApprovalPending,
		})
		approverIDs = append(approverIDs, step.ApproverID.String())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to begin transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.CreateRequest(ctx, request); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to create request", 500)
	}
	if err := s.ledger.Reserve(ctx, tx, companyID, employeeID, req.LeaveTypeID, year, req.TotalDays); err != nil {
		// A concurrent reservation may have depleted the row between the
		// availability read and the lock.
		if errors.Is(err, leavebalanceerrors.ErrInsufficientBalance) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to reserve balance", 500)
	}
	if err := qtx.CreateApprovals(ctx, approvals); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to create approvals", 500)
	}

	rid := contextutil.GetRequestID(ctx)
	if err := s.enqueueSubmitted(ctx, tx, rid, request, approverIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit transaction", 500)
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", rid),
		zap.String("leave_request_id", request.ID.String()),
		zap.String("request_number", request.RequestNumber),
		zap.Int("approvers", len(approvals)),
	)

	request.Approvals = approvals
	resp := toResponse(request)
	return &resp, nil
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, requestID string, req CancelLeaveRequest) (*LeaveRequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to begin transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	request, err := qtx.GetRequestForUpdate(ctx, companyID, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, leaverequesterrors.ErrRequestNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load request", 500)
	}

	if request.EmployeeID.String() != actorID {
		return nil, leaverequesterrors.ErrNotRequestOwner
	}

	priorStatus := request.Status
	switch priorStatus {
	case StatusPending:
		// always cancellable
	case StatusApproved:
		if request.StartDate.Sub(s.now()) < cancellationWindow {
			return nil, leaverequesterrors.ErrCancellationWindowPassed
		}
	default:
		return nil, leaverequesterrors.ErrNotCancellable
	}

	// The stored reason always records who cancelled; the caller's note, if
	// any, rides along.
	reason := fmt.Sprintf("Cancelled by user %s", actorID)
	if req.Reason != "" {
		reason += ": " + req.Reason
	}
	cancelled, err := qtx.CancelRequest(ctx, request.ID, priorStatus, reason)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to cancel request", 500)
	}
	if !cancelled {
		return nil, leaverequesterrors.ErrNotCancellable
	}

	year := request.StartDate.Year()
	employeeID := request.EmployeeID.String()
	leaveTypeID := request.LeaveTypeID.String()
	if priorStatus == StatusPending {
		err = s.ledger.ReleasePending(ctx, tx, companyID, employeeID, leaveTypeID, year, request.TotalDays)
	} else {
		err = s.ledger.Consume(ctx, tx, companyID, employeeID, leaveTypeID, year, request.TotalDays)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update balance", 500)
	}

	rid := contextutil.GetRequestID(ctx)
	if err := s.enqueueResolved(ctx, tx, rid, request, StatusCancelled, actorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit transaction", 500)
	}

	s.logger.Info("leave request cancelled",
		zap.String("request_id", rid),
		zap.String("leave_request_id", request.ID.String()),
		zap.String("prior_status", priorStatus),
	)

	request.Status = StatusCancelled
	request.Reason = reason
	resp := toResponse(request)
	return &resp, nil
}

func (s *service) Approve(ctx context.Context, companyID, approverID, requestID string, req ApproveLeaveRequest) (*LeaveRequestResponse, error) {
	return s.decide(ctx, companyID, approverID, requestID, ApprovalApproved, req.Comments)
}

func (s *service) Deny(ctx context.Context, companyID, approverID, requestID string, req DenyLeaveRequest) (*LeaveRequestResponse, error) {
	return s.decide(ctx, companyID, approverID, requestID, ApprovalDenied, req.Comments)
}

// decide records one approver's decision and, when warranted, fires the
// request's single terminal transition. The request row lock is taken before
// the pending recount so two final approvers serialize; the transition itself
// is a compare-and-set and fires at most once.
func (s *service) decide(ctx context.Context, companyID, approverID, requestID, decision, comments string) (*LeaveRequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to begin transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	request, err := qtx.GetRequestForUpdate(ctx, companyID, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, leaverequesterrors.ErrRequestNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load request", 500)
	}

	approval, err := qtx.FindPendingApproval(ctx, requestID, approverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, leaverequesterrors.ErrNoPendingApproval
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load approval", 500)
	}

	marked, err := qtx.MarkApproval(ctx, approval.ID, decision, comments)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to record decision", 500)
	}
	if !marked {
		return nil, leaverequesterrors.ErrNoPendingApproval
	}

	finalStatus := ""
	switch decision {
	case ApprovalDenied:
		// One denial halts the chain; remaining rows stay pending.
		finalStatus = StatusDenied
	case ApprovalApproved:
		remaining, err := qtx.CountPendingApprovals(ctx, requestID)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to count approvals", 500)
		}
		if remaining == 0 {
			finalStatus = StatusApproved
		}
	}

	rid := contextutil.GetRequestID(ctx)
	if finalStatus != "" {
		transitioned, err := qtx.TransitionRequest(ctx, request.ID, finalStatus)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to finalize request", 500)
		}
		if transitioned {
			if err := s.enqueueResolved(ctx, tx, rid, request, finalStatus, approverID); err != nil {
				return nil, err
			}
			request.Status = finalStatus
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit transaction", 500)
	}

	s.logger.Info("approval decision recorded",
		zap.String("request_id", rid),
		zap.String("leave_request_id", requestID),
		zap.String("approver_id", approverID),
		zap.String("decision", decision),
		zap.String("request_status", request.Status),
	)

	resp := toResponse(request)
	return &resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID, employeeID string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAllByCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list requests", 500)
	}

	responses := make([]LeaveRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, toResponse(&requests[i]))
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (*LeaveRequestResponse, error) {
	request, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaverequesterrors.ErrRequestNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load request", 500)
	}

	resp := toResponse(request)
	return &resp, nil
}

func (s *service) enqueueSubmitted(ctx context.Context, tx *sql.Tx, rid string, request *LeaveRequest, approverIDs []string) error {
	payload, err := json.Marshal(events.LeaveRequestSubmittedEvent{
		EventType:      "leave_request.submitted",
		RequestID:      rid,
		LeaveRequestID: request.ID.String(),
		RequestNumber:  request.RequestNumber,
		CompanyID:      request.CompanyID.String(),
		EmployeeID:     request.EmployeeID.String(),
		LeaveTypeID:    request.LeaveTypeID.String(),
		TotalDays:      request.TotalDays.String(),
		ApproverIDs:    approverIDs,
		OccurredAt:     s.now().UTC(),
	})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to encode event", 500)
	}

	return s.enqueue(ctx, tx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   request.ID.String(),
		EventType:     "leave_request.submitted",
		Topic:         events.LeaveRequestSubmittedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueResolved(ctx context.Context, tx *sql.Tx, rid string, request *LeaveRequest, status, resolvedBy string) error {
	payload, err := json.Marshal(events.LeaveRequestResolvedEvent{
		EventType:      "leave_request.resolved",
		RequestID:      rid,
		LeaveRequestID: request.ID.String(),
		RequestNumber:  request.RequestNumber,
		CompanyID:      request.CompanyID.String(),
		EmployeeID:     request.EmployeeID.String(),
		Status:         status,
		ResolvedBy:     resolvedBy,
		OccurredAt:     s.now().UTC(),
	})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to encode event", 500)
	}

	return s.enqueue(ctx, tx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   request.ID.String(),
		EventType:     "leave_request.resolved",
		Topic:         events.LeaveRequestResolvedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, event kafka.OutboxEvent) error {
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to enqueue event", 500)
	}
	return nil
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.InvalidField("start_date")
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.InvalidField("end_date")
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateRange
	}
	if isWeekend(startDate) || isWeekend(endDate) {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrWeekendDate
	}
	return startDate, endDate, nil
}

func validateDays(totalDays decimal.Decimal, dayOptions []string) error {
	if totalDays.LessThan(decimal.NewFromFloat(0.5)) {
		return leaverequesterrors.ErrTotalDaysTooSmall
	}
	if len(dayOptions) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, opt := range dayOptions {
		switch opt {
		case DayOptionFull:
			sum = sum.Add(decimal.NewFromInt(1))
		case DayOptionHalfAM, DayOptionHalfPM:
			sum = sum.Add(decimal.NewFromFloat(0.5))
		default:
			return apperror.InvalidField("day_options")
		}
	}
	if !sum.Equal(totalDays) {
		return leaverequesterrors.ErrDayOptionsMismatch
	}
	return nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// requestNumber keeps the PTO-U{user}-{unix} shape but appends a counter
// sequence so timestamp collisions cannot produce duplicates.
func requestNumber(employeeID string, at time.Time, seq int64) string {
	short := strings.ReplaceAll(employeeID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("PTO-U%s-%d-%d", short, at.Unix(), seq)
}

func toResponse(r *LeaveRequest) LeaveRequestResponse {
	approvals := make([]LeaveApprovalResponse, 0, len(r.Approvals))
	for i := range r.Approvals {
		a := &r.Approvals[i]
		approvals = append(approvals, LeaveApprovalResponse{
			ID:          a.ID.String(),
			ApproverID:  a.ApproverID.String(),
			Level:       a.Level,
			Sequence:    a.Sequence,
			Status:      a.Status,
			Comments:    a.Comments,
			RespondedAt: formatTimePtr(a.RespondedAt),
		})
	}

	return LeaveRequestResponse{
		ID:            r.ID.String(),
		CompanyID:     r.CompanyID.String(),
		EmployeeID:    r.EmployeeID.String(),
		LeaveTypeID:   r.LeaveTypeID.String(),
		RequestNumber: r.RequestNumber,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		TotalDays:     r.TotalDays,
		Reason:        r.Reason,
		Status:        r.Status,
		SubmittedAt:   r.SubmittedAt.Format(time.RFC3339),
		ApprovedAt:    formatTimePtr(r.ApprovedAt),
		DeniedAt:      formatTimePtr(r.DeniedAt),
		CancelledAt:   formatTimePtr(r.CancelledAt),
		Approvals:     approvals,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
