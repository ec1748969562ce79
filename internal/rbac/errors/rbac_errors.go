package rbacerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"unknown role",
		http.StatusBadRequest,
	)
	ErrUnknownPermission = apperror.New(
		apperror.CodeInvalidInput,
		"unknown resource or action",
		http.StatusBadRequest,
	)
	ErrRoleLocked = apperror.New(
		apperror.CodeInvalidState,
		"super_admin permissions cannot be changed",
		http.StatusConflict,
	)
)
