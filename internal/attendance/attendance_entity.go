package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusAbsent    Status = "absent"
	StatusOnLeave   Status = "on_leave"
	StatusSuspended Status = "suspended"
)

func ParseStatus(v string) (Status, bool) {
	switch s := Status(v); s {
	case StatusPresent, StatusLate, StatusAbsent, StatusOnLeave, StatusSuspended:
		return s, true
	}
	return "", false
}

const dateLayout = "2006-01-02"

// Attendance holds one row per user per day.
type Attendance struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_date,priority:1"`
	AttendanceDate  time.Time       `gorm:"type:date;not null;uniqueIndex:uq_attendance_user_date,priority:2;index"`
	ClockIn         *time.Time      `gorm:"type:timestamptz"`
	ClockOut        *time.Time      `gorm:"type:timestamptz"`
	Status          Status          `gorm:"type:varchar(20);not null;default:'present'"`
	DeductionAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Notes           *string         `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Employee        *EmployeeRef `gorm:"foreignKey:UserID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendance"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "profiles"
}

// ReportRow is one exported line. Values are copied from the stored row.
type ReportRow struct {
	Date      string
	Employee  string
	Status    string
	ClockIn   string
	ClockOut  string
	Deduction string
}

// ProcessResult summarises one run of daily processing.
type ProcessResult struct {
	Date      string `json:"date"`
	Absent    int    `json:"absent"`
	Suspended int    `json:"suspended"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}
