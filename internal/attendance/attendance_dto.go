package attendance

type ClockRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=500"`
}

type ListFilter struct {
	From   string
	To     string
	UserID string
	Status string
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	AttendanceDate  string  `json:"attendance_date"`
	ClockIn         *string `json:"clock_in,omitempty"`
	ClockOut        *string `json:"clock_out,omitempty"`
	Status          string  `json:"status"`
	DeductionAmount string  `json:"deduction_amount"`
	Notes           *string `json:"notes,omitempty"`
}

type ProcessDailyRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
