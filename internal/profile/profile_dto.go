package profile

type CreateProfileRequest struct {
	FullName   string  `json:"full_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Role       string  `json:"role" binding:"omitempty,oneof=super_admin hr_manager network_manager employee"`
	HireDate   *string `json:"hire_date"`
}

type UpdateProfileRequest struct {
	FullName   *string `json:"full_name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Role       *string `json:"role" binding:"omitempty,oneof=super_admin hr_manager network_manager employee"`
	HireDate   *string `json:"hire_date"`
}

type TerminateRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListFilter struct {
	Role          string
	Search        string
	IncludeFormer bool
}

type ProfileResponse struct {
	ID                string  `json:"id"`
	EmployeeCode      string  `json:"employee_code"`
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	Phone             *string `json:"phone,omitempty"`
	Department        *string `json:"department,omitempty"`
	Position          *string `json:"position,omitempty"`
	Role              string  `json:"role"`
	HireDate          *string `json:"hire_date,omitempty"`
	StrikeCount       int     `json:"strike_count"`
	IsSuspended       bool    `json:"is_suspended"`
	SuspensionEndDate *string `json:"suspension_end_date,omitempty"`
	IsTerminated      bool    `json:"is_terminated"`
	TerminatedAt      *string `json:"terminated_at,omitempty"`
}

type DocumentResponse struct {
	ID          string `json:"id"`
	ProfileID   string `json:"profile_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
}
