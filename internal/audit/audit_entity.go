package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionProfileCreated    = "profile.created"
	ActionProfileUpdated    = "profile.updated"
	ActionProfileTerminated = "profile.terminated"
	ActionProfileDeleted    = "profile.deleted"
	ActionDocumentUploaded  = "profile.document_uploaded"
	ActionEmailChanged      = "account.email_changed"
	ActionSalaryUpdated     = "salary.updated"
)

type EmployeeAudit struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID      *uuid.UUID     `gorm:"type:uuid;index"`
	TargetUserID uuid.UUID      `gorm:"type:uuid;not null;index:idx_employee_audits_target"`
	Action       string         `gorm:"type:varchar(60);not null"`
	Changes      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"index:idx_employee_audits_target"`
}

func (EmployeeAudit) TableName() string {
	return "employee_audits"
}
