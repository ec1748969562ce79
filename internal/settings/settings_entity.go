package settings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	KeyLateAfter             = "attendance.late_after"
	KeyAbsenceDeductionDays  = "attendance.absence_deduction_days"
	KeySuspensionDefaultDays = "suspension.default_duration_days"
)

// Defaults apply when a known key has never been written.
var Defaults = map[string]datatypes.JSON{
	KeyLateAfter:             datatypes.JSON(`"09:15"`),
	KeyAbsenceDeductionDays:  datatypes.JSON(`1`),
	KeySuspensionDefaultDays: datatypes.JSON(`7`),
}

type SystemSetting struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key         string         `gorm:"type:varchar(120);not null;uniqueIndex:uq_system_settings_key"`
	Value       datatypes.JSON `gorm:"type:jsonb;not null"`
	Description *string        `gorm:"type:text"`
	UpdatedBy   *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
