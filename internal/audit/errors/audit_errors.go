package auditerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var ErrInvalidTargetID = apperror.New(
	apperror.CodeInvalidInput,
	"invalid target user id",
	http.StatusBadRequest,
)
