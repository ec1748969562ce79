package notificationerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidRecipient = apperror.New(
		apperror.CodeInvalidInput,
		"recipient email is invalid",
		http.StatusBadRequest,
	)
	ErrSendFailed = apperror.New(
		apperror.CodeServiceUnavailable,
		"email could not be sent",
		http.StatusServiceUnavailable,
	)
)
