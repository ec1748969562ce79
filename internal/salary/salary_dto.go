package salary

import "github.com/shopspring/decimal"

type UpsertSalaryRequest struct {
	BaseSalary decimal.Decimal `json:"base_salary"`
	DailyRate  decimal.Decimal `json:"daily_rate"`
}

type SalaryResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	CurrentSalary   decimal.Decimal `json:"current_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	UpdatedAt       string          `json:"updated_at"`
}

type RecalculateRequest struct {
	UserID string `json:"user_id" binding:"omitempty,uuid"`
}

type RecalculateResponse struct {
	Month   string `json:"month"`
	Updated int    `json:"updated"`
}
