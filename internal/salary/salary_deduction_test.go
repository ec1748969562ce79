package salary_test

import (
	"testing"

	"go-hrops/internal/salary"
	salaryerrors "go-hrops/internal/salary/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newSalary(base, total string) *salary.SalaryInfo {
	b, t := dec(base), dec(total)
	return &salary.SalaryInfo{BaseSalary: b, TotalDeductions: t, CurrentSalary: b.Sub(t)}
}

func assertConsistent(t *testing.T, s *salary.SalaryInfo) {
	t.Helper()
	assert.True(t, s.CurrentSalary.Equal(s.BaseSalary.Sub(s.TotalDeductions)),
		"current %s != base %s - total %s", s.CurrentSalary, s.BaseSalary, s.TotalDeductions)
	assert.False(t, s.CurrentSalary.IsNegative())
}

func TestApplyDeduction(t *testing.T) {
	t.Run("thirty percent of 100000", func(t *testing.T) {
		s := newSalary("100000", "0")
		amount, err := salary.ApplyDeduction(s, dec("30"))
		assert.NoError(t, err)
		assert.Equal(t, "30000.00", amount.StringFixed(2))
		assert.Equal(t, "70000.00", s.CurrentSalary.StringFixed(2))
		assert.Equal(t, "30000.00", s.TotalDeductions.StringFixed(2))
		assertConsistent(t, s)
	})

	t.Run("applies to current not base", func(t *testing.T) {
		s := newSalary("100000", "30000")
		amount, err := salary.ApplyDeduction(s, dec("10"))
		assert.NoError(t, err)
		assert.Equal(t, "7000.00", amount.StringFixed(2))
		assert.Equal(t, "63000.00", s.CurrentSalary.StringFixed(2))
		assertConsistent(t, s)
	})

	t.Run("rounds to cents", func(t *testing.T) {
		s := newSalary("1000.01", "0")
		amount, err := salary.ApplyDeduction(s, dec("33.333"))
		assert.NoError(t, err)
		assert.Equal(t, "333.33", amount.StringFixed(2))
		assert.Equal(t, "666.68", s.CurrentSalary.StringFixed(2))
		assertConsistent(t, s)
	})

	t.Run("half cent rounds up", func(t *testing.T) {
		s := newSalary("1000.05", "0")
		amount, err := salary.ApplyDeduction(s, dec("10"))
		assert.NoError(t, err)
		assert.Equal(t, "100.01", amount.StringFixed(2))
		assert.Equal(t, "900.04", s.CurrentSalary.StringFixed(2))
		assertConsistent(t, s)
	})

	t.Run("zero percent is a no-op", func(t *testing.T) {
		s := newSalary("5000", "0")
		amount, err := salary.ApplyDeduction(s, decimal.Zero)
		assert.NoError(t, err)
		assert.True(t, amount.IsZero())
		assert.Equal(t, "5000.00", s.CurrentSalary.StringFixed(2))
	})

	t.Run("rejects out of range percentage", func(t *testing.T) {
		for _, pct := range []string{"-1", "100.01"} {
			s := newSalary("5000", "0")
			_, err := salary.ApplyDeduction(s, dec(pct))
			assert.ErrorIs(t, err, salaryerrors.ErrInvalidPercentage)
			assert.Equal(t, "5000.00", s.CurrentSalary.StringFixed(2))
		}
	})

	t.Run("repeated deductions never go negative", func(t *testing.T) {
		s := newSalary("100", "0")
		for i := 0; i < 50; i++ {
			_, err := salary.ApplyDeduction(s, dec("100"))
			assert.NoError(t, err)
			assertConsistent(t, s)
		}
		assert.True(t, s.CurrentSalary.IsZero())
		assert.Equal(t, "100.00", s.TotalDeductions.StringFixed(2))
	})
}

func TestApplyFixedDeduction(t *testing.T) {
	t.Run("debits daily rate", func(t *testing.T) {
		s := newSalary("3000000", "0")
		amount := salary.ApplyFixedDeduction(s, dec("150000"))
		assert.Equal(t, "150000.00", amount.StringFixed(2))
		assert.Equal(t, "2850000.00", s.CurrentSalary.StringFixed(2))
		assertConsistent(t, s)
	})

	t.Run("clamps at remaining salary", func(t *testing.T) {
		s := newSalary("1000", "900")
		amount := salary.ApplyFixedDeduction(s, dec("250"))
		assert.Equal(t, "100.00", amount.StringFixed(2))
		assert.True(t, s.CurrentSalary.IsZero())
		assertConsistent(t, s)
	})

	t.Run("negative amount ignored", func(t *testing.T) {
		s := newSalary("1000", "0")
		amount := salary.ApplyFixedDeduction(s, dec("-5"))
		assert.True(t, amount.IsZero())
		assertConsistent(t, s)
	})
}
