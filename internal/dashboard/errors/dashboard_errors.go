package dashboarderrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var ErrUnknownRole = apperror.New(
	apperror.CodeForbidden,
	"no dashboard for this role",
	http.StatusForbidden,
)
