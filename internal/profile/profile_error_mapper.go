package profile

import (
	"errors"

	profileerrors "go-hrops/internal/profile/errors"
	"go-hrops/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return profileerrors.ErrProfileNotFound
	}

	switch {
	case apperror.IsUniqueViolation(err, "uq_profiles_email"):
		return profileerrors.ErrEmailAlreadyExists
	case apperror.IsUniqueViolation(err, "uq_profiles_employee_code"):
		return profileerrors.ErrEmployeeCodeAlreadyExists
	}

	return err
}
