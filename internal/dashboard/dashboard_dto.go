package dashboard

type AdminSummary struct {
	PendingSuspensions int              `json:"pending_suspensions"`
	Headcount          map[string]int64 `json:"headcount"`
	TodayAttendance    map[string]int64 `json:"today_attendance"`
	LowStockItems      int64            `json:"low_stock_items"`
	PendingBiodata     int64            `json:"pending_biodata"`
}

type ManagerSummary struct {
	TasksByStatus      map[string]int64 `json:"tasks_by_status"`
	PendingReviews     int64            `json:"pending_reviews"`
	PendingSuspensions *int             `json:"pending_suspensions,omitempty"`
	PendingBiodata     *int64           `json:"pending_biodata,omitempty"`
	LowStockItems      *int64           `json:"low_stock_items,omitempty"`
}

type SalarySummary struct {
	BaseSalary      string `json:"base_salary"`
	CurrentSalary   string `json:"current_salary"`
	TotalDeductions string `json:"total_deductions"`
}

type EmployeeSummary struct {
	AttendanceThisMonth map[string]int64 `json:"attendance_this_month"`
	OpenTasks           map[string]int64 `json:"open_tasks"`
	Salary              *SalarySummary   `json:"salary"`
	StrikeCount         int              `json:"strike_count"`
}

// Response carries exactly one of the role views.
type Response struct {
	Role     string           `json:"role"`
	Admin    *AdminSummary    `json:"admin,omitempty"`
	Manager  *ManagerSummary  `json:"manager,omitempty"`
	Employee *EmployeeSummary `json:"employee,omitempty"`
}
