package biodata

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(v string) (Status, bool) {
	switch s := Status(v); s {
	case StatusPending, StatusApproved, StatusRejected:
		return s, true
	}
	return "", false
}

// Submission is an intake form. UserID is empty for public applicants.
type Submission struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index"`
	FullName   string         `gorm:"type:varchar(255);not null"`
	Email      string         `gorm:"type:varchar(255);not null;index"`
	Phone      *string        `gorm:"type:varchar(40)"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	Documents  datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Status     Status         `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedBy *uuid.UUID     `gorm:"type:uuid"`
	ReviewedAt *time.Time
	ReviewNote *string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Submission) TableName() string {
	return "biodata_submissions"
}

// DocumentRef is one element of Submission.Documents.
type DocumentRef struct {
	Key         string `json:"key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
