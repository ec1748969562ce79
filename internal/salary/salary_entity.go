package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryInfo keeps CurrentSalary == BaseSalary - TotalDeductions and
// CurrentSalary >= 0 across every mutation made through this package.
type SalaryInfo struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_salary_info_user"`
	BaseSalary      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CurrentSalary   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	DailyRate       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SalaryInfo) TableName() string {
	return "salary_info"
}

// DeductionLine is one debit shown on a salary statement.
type DeductionLine struct {
	Source     string
	Reference  string
	OccurredOn time.Time
	Amount     decimal.Decimal
}

// Holder identifies the employee a salary row belongs to.
type Holder struct {
	FullName     string
	EmployeeCode string
}

type userTotal struct {
	UserID uuid.UUID
	Total  decimal.Decimal
}
