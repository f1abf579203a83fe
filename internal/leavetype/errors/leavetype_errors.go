package leavetypeerrors

import (
	"net/http"

	"go-pto/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrCodeAlreadyUsed = apperror.New(
		apperror.CodeConflict,
		"leave type code already exists",
		http.StatusConflict,
	)
	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"specific_approvers contains an invalid id",
		http.StatusBadRequest,
	)
)
