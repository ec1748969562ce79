package salary

import (
	"errors"

	salaryerrors "go-hrops/internal/salary/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return salaryerrors.ErrSalaryNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return salaryerrors.ErrProfileNotFound
	}
	return err
}
