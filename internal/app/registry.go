package app

import (
	"go-hrops/internal/attendance"
	"go-hrops/internal/audit"
	"go-hrops/internal/auth"
	"go-hrops/internal/biodata"
	"go-hrops/internal/dashboard"
	"go-hrops/internal/inventory"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/notification"
	"go-hrops/internal/profile"
	"go-hrops/internal/project"
	"go-hrops/internal/rbac"
	rbacinfra "go-hrops/internal/rbac/infra"
	"go-hrops/internal/salary"
	"go-hrops/internal/settings"
	"go-hrops/internal/shared/config"
	"go-hrops/internal/shared/counter"
	"go-hrops/internal/storage"
	"go-hrops/internal/suspension"
	"go-hrops/internal/task"

	"github.com/gin-gonic/gin"
)

type repositories struct {
	profiles    profile.Repository
	salaries    salary.Repository
	attendance  attendance.Repository
	suspensions suspension.Repository
	tasks       task.Repository
	projects    project.Repository
	inventory   inventory.Repository
	settings    settings.Repository
	audits      audit.Repository
	biodata     biodata.Repository
	accounts    auth.Repository
	counters    counter.Repository
	rbac        rbac.Repository
	outbox      kafka.OutboxRepository
}

func newRepositories(in *infra) repositories {
	return repositories{
		profiles:    profile.NewRepository(in.gormDB),
		salaries:    salary.NewRepository(in.gormDB),
		attendance:  attendance.NewRepository(in.gormDB),
		suspensions: suspension.NewRepository(in.gormDB),
		tasks:       task.NewRepository(in.gormDB),
		projects:    project.NewRepository(in.gormDB),
		inventory:   inventory.NewRepository(in.gormDB),
		settings:    settings.NewRepository(in.gormDB),
		audits:      audit.NewRepository(in.gormDB),
		biodata:     biodata.NewRepository(in.gormDB),
		accounts:    auth.NewRepository(in.gormDB),
		counters:    counter.NewRepository(in.gormDB),
		rbac:        rbac.NewRepository(in.gormDB),
		outbox:      kafka.NewOutboxRepository(in.sqlDB),
	}
}

type services struct {
	rbac        rbac.Service
	auth        auth.Service
	profiles    profile.Service
	salaries    salary.Service
	settings    settings.Service
	attendance  attendance.Service
	suspensions suspension.Service
	projects    project.Service
	tasks       task.Service
	inventory   inventory.Service
	audits      audit.Service
	biodata     biodata.Service
	dashboard   dashboard.Service
}

func newServices(in *infra, repos repositories, store storage.ObjectStore) (services, error) {
	enforcer, err := rbacinfra.NewEnforcer()
	if err != nil {
		return services{}, err
	}
	rbacService, err := rbac.NewService(repos.rbac, enforcer)
	if err != nil {
		return services{}, err
	}

	db, rdb := in.sqlDB, in.rdb
	settingsService := settings.NewService(db, repos.settings, rdb, repos.outbox)
	salaryService := salary.NewService(db, repos.salaries, repos.audits)
	attendanceService := attendance.NewService(db, repos.attendance, repos.profiles, repos.salaries, settingsService)
	suspensionService := suspension.NewService(db, repos.suspensions, repos.profiles, repos.salaries, repos.outbox, settingsService)
	taskService := task.NewService(db, repos.tasks, repos.inventory, store, rdb, repos.outbox)
	biodataService := biodata.NewService(db, repos.biodata, store)

	return services{
		rbac:        rbacService,
		auth:        auth.NewService(db, repos.accounts, repos.profiles, repos.salaries, repos.audits, repos.counters),
		profiles:    profile.NewService(db, repos.profiles, repos.audits, repos.counters, store, repos.outbox),
		salaries:    salaryService,
		settings:    settingsService,
		attendance:  attendanceService,
		suspensions: suspensionService,
		projects:    project.NewService(db, repos.projects, rdb, repos.outbox),
		tasks:       taskService,
		inventory:   inventory.NewService(db, repos.inventory, repos.outbox),
		audits:      audit.NewService(repos.audits),
		biodata:     biodataService,
		dashboard: dashboard.NewService(dashboard.Sources{
			Attendance:  attendanceService,
			Suspensions: suspensionService,
			Tasks:       taskService,
			Salaries:    salaryService,
			Profiles:    repos.profiles,
			Inventory:   repos.inventory,
			Biodata:     biodataService,
		}),
	}, nil
}

func registerRoutes(router *gin.Engine, in *infra, svc services, cfg config.Config) {
	rdb := in.rdb
	mailer := notification.NewMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, auth.NewHandler(svc.auth), svc.rbac)
		rbac.RegisterRoutes(api, rbac.NewHandler(svc.rbac), svc.rbac)
		profile.RegisterRoutes(api, profile.NewHandler(svc.profiles), svc.rbac)
		salary.RegisterRoutes(api, salary.NewHandler(svc.salaries), svc.rbac, rdb)
		settings.RegisterRoutes(api, settings.NewHandler(svc.settings), svc.rbac)
		attendance.RegisterRoutes(api, attendance.NewHandler(svc.attendance), svc.rbac, rdb)
		suspension.RegisterRoutes(api, suspension.NewHandler(svc.suspensions), svc.rbac, rdb)
		project.RegisterRoutes(api, project.NewHandler(svc.projects), svc.rbac)
		task.RegisterRoutes(api, task.NewHandler(svc.tasks), svc.rbac, rdb)
		inventory.RegisterRoutes(api, inventory.NewHandler(svc.inventory), svc.rbac, rdb)
		audit.RegisterRoutes(api, audit.NewHandler(svc.audits), svc.rbac)
		biodata.RegisterRoutes(api, biodata.NewHandler(svc.biodata), svc.rbac)
		dashboard.RegisterRoutes(api, dashboard.NewHandler(svc.dashboard), svc.rbac)
		notification.RegisterRoutes(api, notification.NewHandler(mailer), svc.rbac)
	}
}
