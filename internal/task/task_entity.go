package task

import (
	"time"

	"go-hrops/internal/domain"
	taskerrors "go-hrops/internal/task/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in_progress"
	StatusUnderReview Status = "under_review"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:     {StatusInProgress, StatusCancelled},
	StatusInProgress:  {StatusUnderReview, StatusCancelled},
	StatusUnderReview: {StatusCompleted, StatusInProgress},
	StatusCompleted:   {},
	StatusCancelled:   {},
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

func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Category string

const (
	CategoryStandard Category = "standard"
	CategoryGrowth   Category = "growth"
)

var priorities = map[string]bool{"low": true, "medium": true, "high": true, "urgent": true}

// Actor is the caller as resolved by the auth middleware.
type Actor struct {
	ID   string
	Role domain.Role
}

// CheckTransition applies the table plus who may make each move:
// only the assignee submits for review, only managers complete, send
// back, or cancel.
func CheckTransition(t Task, actor Actor, to Status) error {
	if !CanTransition(t.Status, to) {
		return taskerrors.ErrInvalidTransition
	}
	isAssignee := t.AssignedTo.String() == actor.ID
	switch {
	case to == StatusUnderReview:
		if !isAssignee {
			return taskerrors.ErrNotAssignee
		}
	case to == StatusCompleted, to == StatusCancelled, t.Status == StatusUnderReview:
		if !actor.Role.IsManager() {
			return taskerrors.ErrManagerOnly
		}
	case to == StatusInProgress:
		if !isAssignee && !actor.Role.IsManager() {
			return taskerrors.ErrNotAssignee
		}
	}
	return nil
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Description *string    `gorm:"type:text"`
	Category    Category   `gorm:"type:varchar(20);not null;default:'standard'"`
	Priority    string     `gorm:"type:varchar(20);not null;default:'medium'"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index"`
	AssignedTo  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	DueDate     *time.Time `gorm:"type:date"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'pending';index"`
	SubmittedAt *time.Time
	CompletedAt *time.Time
	DeletedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Task) TableName() string {
	return "tasks"
}

// Participant reports whether the actor may read and post on the task.
func (t Task) Participant(actor Actor) bool {
	return actor.Role.IsManager() || t.AssignedTo.String() == actor.ID || t.CreatedBy.String() == actor.ID
}

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (Message) TableName() string {
	return "task_messages"
}

type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Bucket      string    `gorm:"type:varchar(60);not null"`
	ObjectKey   string    `gorm:"type:text;not null"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(120)"`
	Size        int64
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (Attachment) TableName() string {
	return "task_attachments"
}

type InventoryUsage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"not null"`
	DeductedBy uuid.UUID `gorm:"type:uuid;not null"`
	DeductedAt time.Time `gorm:"not null"`
}

func (InventoryUsage) TableName() string {
	return "task_inventory_usages"
}
