package profileerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidProfileID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid profile id",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"invalid role",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"profile not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a profile with this email already exists",
		http.StatusConflict,
	)
	ErrEmployeeCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee code already exists",
		http.StatusConflict,
	)
	ErrAlreadyTerminated = apperror.New(
		apperror.CodeInvalidState,
		"employee is already terminated",
		http.StatusConflict,
	)
	ErrEmptyDocument = apperror.New(
		apperror.CodeInvalidInput,
		"document is empty",
		http.StatusBadRequest,
	)
	ErrDocumentTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"document exceeds the upload limit",
		http.StatusRequestEntityTooLarge,
	)
)
