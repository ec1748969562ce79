package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateUserRequest creates the profile, its salary row and the login
// account together.
type CreateUserRequest struct {
	FullName   string  `json:"full_name" binding:"required,max=255"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Role       string  `json:"role" binding:"required,oneof=super_admin hr_manager network_manager employee"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	HireDate   *string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	BaseSalary string  `json:"base_salary" binding:"omitempty,numeric"`
	DailyRate  string  `json:"daily_rate" binding:"omitempty,numeric"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type BootstrapAdminRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type AccountResponse struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginResponse struct {
	User AccountResponse `json:"user"`
	TokenPair
}
