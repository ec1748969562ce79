package suspension

import "github.com/shopspring/decimal"

type CreateSuspensionRequest struct {
	UserID                    string          `json:"user_id" binding:"required,uuid"`
	Reason                    string          `json:"reason" binding:"required"`
	DurationDays              *int            `json:"duration_days" binding:"omitempty,min=1"`
	StrikeNumber              int             `json:"strike_number" binding:"min=0,max=3"`
	SalaryDeductionPercentage decimal.Decimal `json:"salary_deduction_percentage"`
}

type RejectSuspensionRequest struct {
	Reason string `json:"reason"`
}

type ListFilter struct {
	Status string
	UserID string
}

type SuspensionResponse struct {
	ID                        string          `json:"id"`
	UserID                    string          `json:"user_id"`
	CreatedBy                 string          `json:"created_by"`
	ApprovedBy                *string         `json:"approved_by,omitempty"`
	Status                    string          `json:"status"`
	SuspensionStart           *string         `json:"suspension_start,omitempty"`
	SuspensionEnd             string          `json:"suspension_end"`
	Reason                    string          `json:"reason"`
	StrikeNumber              int             `json:"strike_number"`
	SalaryDeductionPercentage decimal.Decimal `json:"salary_deduction_percentage"`
	DeductionAmount           decimal.Decimal `json:"deduction_amount"`
	EffectsAppliedAt          *string         `json:"effects_applied_at,omitempty"`
	RejectionReason           *string         `json:"rejection_reason,omitempty"`
	CompletedAt               *string         `json:"completed_at,omitempty"`
	Terminated                bool            `json:"terminated"`
	Message                   string          `json:"message,omitempty"`
	CreatedAt                 string          `json:"created_at"`
}
