package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrops/internal/attendance"
	"go-hrops/internal/dashboard"
	"go-hrops/internal/domain"
	"go-hrops/internal/salary"
	salaryerrors "go-hrops/internal/salary/errors"
	"go-hrops/internal/suspension"
	"go-hrops/internal/task"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendance struct {
	counts  map[attendance.Status]int64
	rows    []attendance.AttendanceResponse
	gotList attendance.ListFilter
}

func (f *fakeAttendance) CountByStatus(ctx context.Context, date time.Time) (map[attendance.Status]int64, error) {
	return f.counts, nil
}

func (f *fakeAttendance) GetAll(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error) {
	f.gotList = filter
	return f.rows, nil
}

type fakeSuspensions struct {
	rows []suspension.SuspensionResponse
}

func (f *fakeSuspensions) GetAll(ctx context.Context, filter suspension.ListFilter) ([]suspension.SuspensionResponse, error) {
	var out []suspension.SuspensionResponse
	for _, r := range f.rows {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeTasks struct {
	byAssignee map[string]map[task.Status]int64
}

func (f *fakeTasks) CountByStatus(ctx context.Context, assignedTo string) (map[task.Status]int64, error) {
	return f.byAssignee[assignedTo], nil
}

type fakeSalaries struct {
	rows map[string]salary.SalaryResponse
}

func (f *fakeSalaries) GetByUserID(ctx context.Context, userID string) (salary.SalaryResponse, error) {
	s, ok := f.rows[userID]
	if !ok {
		return salary.SalaryResponse{}, salaryerrors.ErrSalaryNotFound
	}
	return s, nil
}

type fakeProfiles map[string]int64

func (f fakeProfiles) CountByRole(ctx context.Context, role string) (int64, error) {
	return f[role], nil
}

type counter struct {
	n   int64
	err error
}

func (c counter) CountLowStock(ctx context.Context) (int64, error) { return c.n, c.err }
func (c counter) CountPending(ctx context.Context) (int64, error)  { return c.n, c.err }

const employeeID = "5b0c6a2e-3f7c-4b8e-9d55-1c2b3a4d5e6f"

func sources() dashboard.Sources {
	return dashboard.Sources{
		Attendance: &fakeAttendance{
			counts: map[attendance.Status]int64{attendance.StatusPresent: 7, attendance.StatusLate: 2},
			rows: []attendance.AttendanceResponse{
				{Status: "present"}, {Status: "present"}, {Status: "late"},
			},
		},
		Suspensions: &fakeSuspensions{rows: []suspension.SuspensionResponse{
			{UserID: "other", Status: "pending", StrikeNumber: 1},
			{UserID: employeeID, Status: "completed", StrikeNumber: 1},
			{UserID: employeeID, Status: "active", StrikeNumber: 2},
			{UserID: employeeID, Status: "rejected", StrikeNumber: 3},
		}},
		Tasks: &fakeTasks{byAssignee: map[string]map[task.Status]int64{
			"":         {task.StatusPending: 4, task.StatusUnderReview: 3, task.StatusCompleted: 9},
			employeeID: {task.StatusInProgress: 1, task.StatusCompleted: 5},
		}},
		Salaries: &fakeSalaries{rows: map[string]salary.SalaryResponse{
			employeeID: {
				BaseSalary:      decimal.RequireFromString("5000000"),
				CurrentSalary:   decimal.RequireFromString("4750000"),
				TotalDeductions: decimal.RequireFromString("250000"),
			},
		}},
		Profiles:  fakeProfiles{"employee": 12, "hr_manager": 2, "network_manager": 1, "super_admin": 1},
		Inventory: counter{n: 3},
		Biodata:   counter{n: 5},
	}
}

func TestDashboard_SuperAdmin(t *testing.T) {
	svc := dashboard.NewService(sources())

	resp, err := svc.Get(context.Background(), domain.RoleSuperAdmin, "")
	require.NoError(t, err)
	require.NotNil(t, resp.Admin)
	assert.Nil(t, resp.Employee)
	assert.Equal(t, 1, resp.Admin.PendingSuspensions)
	assert.Equal(t, int64(12), resp.Admin.Headcount["employee"])
	assert.Equal(t, int64(7), resp.Admin.TodayAttendance["present"])
	assert.Equal(t, int64(3), resp.Admin.LowStockItems)
	assert.Equal(t, int64(5), resp.Admin.PendingBiodata)
}

func TestDashboard_Managers(t *testing.T) {
	svc := dashboard.NewService(sources())

	hr, err := svc.Get(context.Background(), domain.RoleHRManager, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), hr.Manager.PendingReviews)
	require.NotNil(t, hr.Manager.PendingBiodata)
	assert.Equal(t, int64(5), *hr.Manager.PendingBiodata)
	assert.Nil(t, hr.Manager.LowStockItems)

	net, err := svc.Get(context.Background(), domain.RoleNetworkManager, "")
	require.NoError(t, err)
	require.NotNil(t, net.Manager.LowStockItems)
	assert.Equal(t, int64(3), *net.Manager.LowStockItems)
	assert.Nil(t, net.Manager.PendingSuspensions)
}

func TestDashboard_Employee(t *testing.T) {
	src := sources()
	svc := dashboard.NewService(src)

	resp, err := svc.Get(context.Background(), domain.RoleEmployee, employeeID)
	require.NoError(t, err)
	e := resp.Employee
	require.NotNil(t, e)
	assert.Equal(t, int64(2), e.AttendanceThisMonth["present"])
	assert.Equal(t, map[string]int64{"in_progress": 1}, e.OpenTasks)
	assert.Equal(t, "4750000.00", e.Salary.CurrentSalary)
	assert.Equal(t, 2, e.StrikeCount, "rejected suspensions do not count")
	assert.Equal(t, employeeID, src.Attendance.(*fakeAttendance).gotList.UserID)
}

func TestDashboard_EmployeeWithoutSalaryRow(t *testing.T) {
	src := sources()
	src.Salaries = &fakeSalaries{}
	resp, err := dashboard.NewService(src).Get(context.Background(), domain.RoleEmployee, employeeID)
	require.NoError(t, err)
	assert.Nil(t, resp.Employee.Salary)
}

func TestDashboard_SourceFailure(t *testing.T) {
	src := sources()
	src.Inventory = counter{err: errors.New("db down")}
	_, err := dashboard.NewService(src).Get(context.Background(), domain.RoleSuperAdmin, "")
	assert.Error(t, err)
}
