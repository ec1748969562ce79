package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeCode      string     `gorm:"type:varchar(20);uniqueIndex:uq_profiles_employee_code"`
	FullName          string     `gorm:"type:varchar(255);not null"`
	Email             string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_profiles_email"`
	Phone             *string    `gorm:"type:varchar(30)"`
	Department        *string    `gorm:"type:varchar(100)"`
	Position          *string    `gorm:"type:varchar(100)"`
	Role              string     `gorm:"type:varchar(30);not null;default:'employee';index"`
	HireDate          *time.Time `gorm:"type:date"`
	StrikeCount       int        `gorm:"not null;default:0"`
	IsSuspended       bool       `gorm:"not null;default:false"`
	SuspensionEndDate *time.Time
	IsTerminated      bool `gorm:"not null;default:false;index"`
	TerminatedAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Active reports whether the profile can still work: not terminated, not deleted.
func (p Profile) Active() bool {
	return !p.IsTerminated && !p.DeletedAt.Valid
}

// SuspendedOn reports whether the profile is suspended on the given day.
func (p Profile) SuspendedOn(day time.Time) bool {
	if !p.IsSuspended {
		return false
	}
	if p.SuspensionEndDate == nil {
		return true
	}
	return !day.After(*p.SuspensionEndDate)
}

type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProfileID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Bucket      string    `gorm:"type:varchar(60);not null"`
	ObjectKey   string    `gorm:"type:text;not null"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(120)"`
	Size        int64
	UploadedBy  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

func (Document) TableName() string {
	return "profile_documents"
}
