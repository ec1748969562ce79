package salary

import (
	salaryerrors "go-hrops/internal/salary/errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ApplyDeduction debits pct percent of the current salary, rounded to
// cents and capped at what is left. It returns the amount debited.
func ApplyDeduction(s *SalaryInfo, pct decimal.Decimal) (decimal.Decimal, error) {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return decimal.Zero, salaryerrors.ErrInvalidPercentage
	}
	amount := s.CurrentSalary.Mul(pct).Div(hundred).Round(2)
	return debit(s, amount), nil
}

// ApplyFixedDeduction debits a fixed amount, such as an absence penalty.
func ApplyFixedDeduction(s *SalaryInfo, amount decimal.Decimal) decimal.Decimal {
	return debit(s, amount.Round(2))
}

func debit(s *SalaryInfo, amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() || !s.CurrentSalary.IsPositive() {
		return decimal.Zero
	}
	if amount.GreaterThan(s.CurrentSalary) {
		amount = s.CurrentSalary
	}
	s.CurrentSalary = s.CurrentSalary.Sub(amount)
	s.TotalDeductions = s.TotalDeductions.Add(amount)
	return amount
}

// rebase sets a new base and total while keeping current consistent.
// A total above the base is capped so current never drops below zero.
func rebase(s *SalaryInfo, base, total decimal.Decimal) {
	if total.GreaterThan(base) {
		total = base
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	s.BaseSalary = base
	s.TotalDeductions = total
	s.CurrentSalary = base.Sub(total)
}
