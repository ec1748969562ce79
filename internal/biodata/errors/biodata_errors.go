package biodataerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidSubmissionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid biodata submission id",
		http.StatusBadRequest,
	)
	ErrInvalidPayload = apperror.New(
		apperror.CodeInvalidInput,
		"payload must be a JSON object",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid biodata status",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approve or reject",
		http.StatusBadRequest,
	)
	ErrNoteRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a note is required when rejecting",
		http.StatusBadRequest,
	)
	ErrTooManyDocuments = apperror.New(
		apperror.CodeInvalidInput,
		"too many documents",
		http.StatusBadRequest,
	)
	ErrDocumentTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"document exceeds upload limit",
		http.StatusBadRequest,
	)
	ErrSubmissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"biodata submission not found",
		http.StatusNotFound,
	)
	ErrAlreadyReviewed = apperror.New(
		apperror.CodeInvalidState,
		"biodata submission already reviewed",
		http.StatusConflict,
	)
)
