package settingserrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidKey = apperror.New(
		apperror.CodeInvalidInput,
		"setting key may only contain lowercase letters, digits, dots and underscores",
		http.StatusBadRequest,
	)
	ErrInvalidValue = apperror.New(
		apperror.CodeInvalidInput,
		"setting value is not valid for this key",
		http.StatusBadRequest,
	)
	ErrSettingNotFound = apperror.New(
		apperror.CodeNotFound,
		"setting not found",
		http.StatusNotFound,
	)
)
