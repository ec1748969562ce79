package suspension

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// approved is a legacy state: rows written by older clients may still carry
// it, so it is treated like pending.
var transitions = map[Status][]Status{
	StatusPending:   {StatusActive, StatusRejected},
	StatusApproved:  {StatusActive, StatusRejected},
	StatusActive:    {StatusCompleted},
	StatusCompleted: {},
	StatusRejected:  {StatusRejected},
}

func ParseStatus(v string) (Status, bool) {
	s := Status(v)
	_, ok := transitions[s]
	return s, ok
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

const (
	WarningStrike     = 0
	TerminationStrike = 3
)

type Suspension struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID                    uuid.UUID       `gorm:"type:uuid;not null;index:idx_suspensions_user_status"`
	CreatedBy                 uuid.UUID       `gorm:"type:uuid;not null"`
	ApprovedBy                *uuid.UUID      `gorm:"type:uuid"`
	Status                    Status          `gorm:"type:varchar(20);not null;default:'pending';index:idx_suspensions_user_status;index:idx_suspensions_status_end"`
	SuspensionStart           *time.Time
	SuspensionEnd             time.Time       `gorm:"not null;index:idx_suspensions_status_end"`
	Reason                    string          `gorm:"type:text;not null"`
	StrikeNumber              int             `gorm:"not null;default:0"`
	SalaryDeductionPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	DeductionAmount           decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	EffectsAppliedAt          *time.Time
	RejectedBy                *uuid.UUID `gorm:"type:uuid"`
	RejectionReason           *string    `gorm:"type:text"`
	RejectedAt                *time.Time
	CompletedAt               *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

func (Suspension) TableName() string {
	return "suspensions"
}

// EffectsApplied reports whether strikes and salary deduction were already
// charged for this suspension.
func (s Suspension) EffectsApplied() bool {
	return s.EffectsAppliedAt != nil
}
