package biodata

import "encoding/json"

// SubmitRequest arrives as multipart form fields next to the "documents" files.
type SubmitRequest struct {
	FullName string `form:"full_name" binding:"required,max=255"`
	Email    string `form:"email" binding:"required,email"`
	Phone    string `form:"phone" binding:"omitempty,max=40"`
	Payload  string `form:"payload"`
}

type ReviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Note     string `json:"note" binding:"omitempty,max=2000"`
}

type ListFilter struct {
	Status string
	Search string
}

type DocumentResponse struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

type SubmissionResponse struct {
	ID         string             `json:"id"`
	UserID     *string            `json:"user_id,omitempty"`
	FullName   string             `json:"full_name"`
	Email      string             `json:"email"`
	Phone      *string            `json:"phone,omitempty"`
	Payload    json.RawMessage    `json:"payload"`
	Documents  []DocumentResponse `json:"documents"`
	Status     string             `json:"status"`
	ReviewedBy *string            `json:"reviewed_by,omitempty"`
	ReviewedAt *string            `json:"reviewed_at,omitempty"`
	ReviewNote *string            `json:"review_note,omitempty"`
	CreatedAt  string             `json:"created_at"`
}
