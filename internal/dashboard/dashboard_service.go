package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-hrops/internal/attendance"
	dashboarderrors "go-hrops/internal/dashboard/errors"
	"go-hrops/internal/domain"
	"go-hrops/internal/salary"
	salaryerrors "go-hrops/internal/salary/errors"
	"go-hrops/internal/suspension"
	"go-hrops/internal/task"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AttendanceReader interface {
	CountByStatus(ctx context.Context, date time.Time) (map[attendance.Status]int64, error)
	GetAll(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error)
}

type SuspensionReader interface {
	GetAll(ctx context.Context, filter suspension.ListFilter) ([]suspension.SuspensionResponse, error)
}

type TaskCounter interface {
	CountByStatus(ctx context.Context, assignedTo string) (map[task.Status]int64, error)
}

type SalaryReader interface {
	GetByUserID(ctx context.Context, userID string) (salary.SalaryResponse, error)
}

type HeadcountReader interface {
	CountByRole(ctx context.Context, role string) (int64, error)
}

type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

type BiodataCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

type Sources struct {
	Attendance  AttendanceReader
	Suspensions SuspensionReader
	Tasks       TaskCounter
	Salaries    SalaryReader
	Profiles    HeadcountReader
	Inventory   LowStockCounter
	Biodata     BiodataCounter
}

type Service interface {
	Get(ctx context.Context, role domain.Role, profileID string) (Response, error)
}

type service struct {
	src    Sources
	now    func() time.Time
	logger *zap.Logger
}

func NewService(src Sources, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{src: src, now: func() time.Time { return time.Now().UTC() }, logger: l}
}

func (s *service) Get(ctx context.Context, role domain.Role, profileID string) (Response, error) {
	var (
		resp = Response{Role: role.String()}
		err  error
	)
	switch role {
	case domain.RoleSuperAdmin:
		resp.Admin, err = s.admin(ctx)
	case domain.RoleHRManager, domain.RoleNetworkManager:
		resp.Manager, err = s.manager(ctx, role)
	case domain.RoleEmployee:
		resp.Employee, err = s.employee(ctx, profileID)
	default:
		return Response{}, dashboarderrors.ErrUnknownRole
	}
	if err != nil {
		s.logger.Error("build dashboard failed", zap.String("role", role.String()), zap.Error(err))
		return Response{}, err
	}
	return resp, nil
}

func (s *service) pendingSuspensions(ctx context.Context) (int, error) {
	rows, err := s.src.Suspensions.GetAll(ctx, suspension.ListFilter{Status: string(suspension.StatusPending)})
	return len(rows), err
}

func (s *service) admin(ctx context.Context) (*AdminSummary, error) {
	out := &AdminSummary{Headcount: map[string]int64{}, TodayAttendance: map[string]int64{}}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.PendingSuspensions, err = s.pendingSuspensions(ctx)
		return err
	})
	for _, role := range domain.AllRoles {
		g.Go(func() error {
			n, err := s.src.Profiles.CountByRole(ctx, role.String())
			if err != nil {
				return err
			}
			mu.Lock()
			out.Headcount[role.String()] = n
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		counts, err := s.src.Attendance.CountByStatus(ctx, s.now())
		if err != nil {
			return err
		}
		for st, n := range counts {
			out.TodayAttendance[string(st)] = n
		}
		return nil
	})
	g.Go(func() (err error) {
		out.LowStockItems, err = s.src.Inventory.CountLowStock(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.PendingBiodata, err = s.src.Biodata.CountPending(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) manager(ctx context.Context, role domain.Role) (*ManagerSummary, error) {
	out := &ManagerSummary{TasksByStatus: map[string]int64{}}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.src.Tasks.CountByStatus(ctx, "")
		if err != nil {
			return err
		}
		for st, n := range counts {
			out.TasksByStatus[string(st)] = n
		}
		out.PendingReviews = counts[task.StatusUnderReview]
		return nil
	})

	if role == domain.RoleHRManager {
		g.Go(func() error {
			n, err := s.pendingSuspensions(ctx)
			out.PendingSuspensions = &n
			return err
		})
		g.Go(func() error {
			n, err := s.src.Biodata.CountPending(ctx)
			out.PendingBiodata = &n
			return err
		})
	} else {
		g.Go(func() error {
			n, err := s.src.Inventory.CountLowStock(ctx)
			out.LowStockItems = &n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) employee(ctx context.Context, profileID string) (*EmployeeSummary, error) {
	out := &EmployeeSummary{AttendanceThisMonth: map[string]int64{}, OpenTasks: map[string]int64{}}
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.src.Attendance.GetAll(ctx, attendance.ListFilter{
			UserID: profileID,
			From:   monthStart.Format(time.DateOnly),
			To:     now.Format(time.DateOnly),
		})
		if err != nil {
			return err
		}
		for _, r := range rows {
			out.AttendanceThisMonth[r.Status]++
		}
		return nil
	})
	g.Go(func() error {
		counts, err := s.src.Tasks.CountByStatus(ctx, profileID)
		if err != nil {
			return err
		}
		for st, n := range counts {
			if st == task.StatusCompleted || st == task.StatusCancelled {
				continue
			}
			out.OpenTasks[string(st)] = n
		}
		return nil
	})
	g.Go(func() error {
		sal, err := s.src.Salaries.GetByUserID(ctx, profileID)
		if errors.Is(err, salaryerrors.ErrSalaryNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out.Salary = &SalarySummary{
			BaseSalary:      sal.BaseSalary.StringFixed(2),
			CurrentSalary:   sal.CurrentSalary.StringFixed(2),
			TotalDeductions: sal.TotalDeductions.StringFixed(2),
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.src.Suspensions.GetAll(ctx, suspension.ListFilter{UserID: profileID})
		if err != nil {
			return err
		}
		for _, r := range rows {
			if r.Status == string(suspension.StatusRejected) || r.Status == string(suspension.StatusPending) {
				continue
			}
			if r.StrikeNumber > out.StrikeCount {
				out.StrikeCount = r.StrikeNumber
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
