package suspensionerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidSuspensionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid suspension id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrInvalidDuration = apperror.New(
		apperror.CodeInvalidInput,
		"duration_days must be a positive number of days",
		http.StatusBadRequest,
	)
	ErrInvalidStrikeNumber = apperror.New(
		apperror.CodeInvalidInput,
		"strike_number must be between 0 and 3",
		http.StatusBadRequest,
	)
	ErrInvalidPercentage = apperror.New(
		apperror.CodeInvalidInput,
		"salary_deduction_percentage must be between 0 and 100",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid suspension status",
		http.StatusBadRequest,
	)
	ErrSuspensionNotFound = apperror.New(
		apperror.CodeNotFound,
		"suspension not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeTerminated = apperror.New(
		apperror.CodeInvalidState,
		"employee is already terminated",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"suspension cannot move to the requested status",
		http.StatusConflict,
	)
	ErrEffectsAlreadyApplied = apperror.New(
		apperror.CodeInvalidState,
		"suspension has already been applied",
		http.StatusConflict,
	)
	ErrSalaryNotFound = apperror.New(
		apperror.CodeInvalidState,
		"employee has no salary record to deduct from",
		http.StatusConflict,
	)
	ErrApproverNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"only a super admin can approve suspensions",
		http.StatusForbidden,
	)
)
