package taskerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid task id",
		http.StatusBadRequest,
	)
	ErrInvalidAssignee = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignee",
		http.StatusBadRequest,
	)
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid project id",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid task status",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"category must be standard or growth",
		http.StatusBadRequest,
	)
	ErrInvalidPriority = apperror.New(
		apperror.CodeInvalidInput,
		"priority must be low, medium, high or urgent",
		http.StatusBadRequest,
	)
	ErrInvalidDueDate = apperror.New(
		apperror.CodeInvalidInput,
		"due_date must use YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEmptyMessage = apperror.New(
		apperror.CodeInvalidInput,
		"message body is required",
		http.StatusBadRequest,
	)
	ErrEmptyAttachment = apperror.New(
		apperror.CodeInvalidInput,
		"attachment is empty",
		http.StatusBadRequest,
	)
	ErrAttachmentTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"attachment exceeds the upload limit",
		http.StatusBadRequest,
	)
	ErrInvalidUsage = apperror.New(
		apperror.CodeInvalidInput,
		"items must list positive quantities of distinct inventory items",
		http.StatusBadRequest,
	)
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"task not found",
		http.StatusNotFound,
	)
	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"inventory item not found",
		http.StatusNotFound,
	)
	ErrNotInBin = apperror.New(
		apperror.CodeInvalidState,
		"task is not in the bin",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"task status transition not allowed",
		http.StatusConflict,
	)
	ErrTaskClosed = apperror.New(
		apperror.CodeInvalidState,
		"task is closed",
		http.StatusConflict,
	)
	ErrNotAssignee = apperror.New(
		apperror.CodeForbidden,
		"only the assignee can do this",
		http.StatusForbidden,
	)
	ErrManagerOnly = apperror.New(
		apperror.CodeForbidden,
		"only a manager can do this",
		http.StatusForbidden,
	)
	ErrSuperAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"only a super admin can do this",
		http.StatusForbidden,
	)
	ErrNotParticipant = apperror.New(
		apperror.CodeForbidden,
		"you are not part of this task",
		http.StatusForbidden,
	)
	ErrInsufficientStock = apperror.New(
		apperror.CodeConflict,
		"insufficient stock",
		http.StatusConflict,
	)
)
