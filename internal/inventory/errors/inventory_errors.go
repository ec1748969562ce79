package inventoryerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidItemID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid inventory item id",
		http.StatusBadRequest,
	)
	ErrInvalidQuantity = apperror.New(
		apperror.CodeInvalidInput,
		"quantity must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidDelta = apperror.New(
		apperror.CodeInvalidInput,
		"delta must not be zero",
		http.StatusBadRequest,
	)
	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"inventory item not found",
		http.StatusNotFound,
	)
	ErrSKUExists = apperror.New(
		apperror.CodeConflict,
		"sku already exists",
		http.StatusConflict,
	)
	ErrInsufficientStock = apperror.New(
		apperror.CodeConflict,
		"insufficient stock",
		http.StatusConflict,
	)
)
