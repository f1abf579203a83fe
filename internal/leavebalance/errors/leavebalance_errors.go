package leavebalanceerrors

import (
	"net/http"

	"go-pto/internal/shared/apperror"
)

var ErrInsufficientBalance = apperror.New(
	apperror.CodeInvalidState,
	"insufficient leave balance",
	http.StatusUnprocessableEntity,
)
