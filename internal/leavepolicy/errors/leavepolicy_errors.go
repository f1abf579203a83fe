package leavepolicyerrors

import (
	"net/http"

	"go-pto/internal/shared/apperror"
)

var (
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave policy not found",
		http.StatusNotFound,
	)
	ErrPolicyAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"employee already has a policy for this leave type",
		http.StatusConflict,
	)
	ErrNegativeDays = apperror.New(
		apperror.CodeInvalidInput,
		"day amounts must not be negative",
		http.StatusBadRequest,
	)
)
