package leaverequesterrors

import (
	"net/http"

	"go-pto/internal/shared/apperror"
)

var (
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must not be after end_date",
		http.StatusUnprocessableEntity,
	)
	ErrWeekendDate = apperror.New(
		apperror.CodeInvalidInput,
		"start_date and end_date must be business days",
		http.StatusUnprocessableEntity,
	)
	ErrTotalDaysTooSmall = apperror.New(
		apperror.CodeInvalidInput,
		"total_days must be at least 0.5",
		http.StatusUnprocessableEntity,
	)
	ErrDayOptionsMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"day_options do not add up to total_days",
		http.StatusUnprocessableEntity,
	)
	ErrLeaveTypeUnavailable = apperror.New(
		apperror.CodeInvalidInput,
		"leave type does not exist or is inactive",
		http.StatusUnprocessableEntity,
	)
	ErrNoApproverAvailable = apperror.New(
		apperror.CodeInvalidState,
		"no approver can be resolved for this request",
		http.StatusUnprocessableEntity,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the request owner may cancel it",
		http.StatusForbidden,
	)
	ErrNotCancellable = apperror.New(
		apperror.CodeInvalidState,
		"request is not in a cancellable state",
		http.StatusConflict,
	)
	ErrCancellationWindowPassed = apperror.New(
		apperror.CodeInvalidState,
		"approved requests can only be cancelled at least 24 hours before they start",
		http.StatusConflict,
	)

	// Covers both "never was an approver" and "already responded"; the two
	// are deliberately indistinguishable to the caller.
	ErrNoPendingApproval = apperror.New(
		apperror.CodeForbidden,
		"no pending approval for this approver",
		http.StatusForbidden,
	)
)
