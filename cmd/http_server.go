package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
	auditsqlite "github.com/hospadmin/hospital-admin/internal/audit/sqlite"
	"github.com/hospadmin/hospital-admin/internal/auth"
	authsqlite "github.com/hospadmin/hospital-admin/internal/auth/sqlite"
	"github.com/hospadmin/hospital-admin/internal/department"
	departmentsqlite "github.com/hospadmin/hospital-admin/internal/department/sqlite"
	"github.com/hospadmin/hospital-admin/internal/hr/attendance"
	attendancesqlite "github.com/hospadmin/hospital-admin/internal/hr/attendance/sqlite"
	"github.com/hospadmin/hospital-admin/internal/hr/employee"
	employeesqlite "github.com/hospadmin/hospital-admin/internal/hr/employee/sqlite"
	"github.com/hospadmin/hospital-admin/internal/hr/leave"
	leavesqlite "github.com/hospadmin/hospital-admin/internal/hr/leave/sqlite"
	"github.com/hospadmin/hospital-admin/internal/hr/performance"
	performancesqlite "github.com/hospadmin/hospital-admin/internal/hr/performance/sqlite"
	"github.com/hospadmin/hospital-admin/internal/hr/recruitment"
	recruitmentsqlite "github.com/hospadmin/hospital-admin/internal/hr/recruitment/sqlite"
	"github.com/hospadmin/hospital-admin/internal/hr/salary"
	salarysqlite "github.com/hospadmin/hospital-admin/internal/hr/salary/sqlite"
	"github.com/hospadmin/hospital-admin/internal/menu"
	menusqlite "github.com/hospadmin/hospital-admin/internal/menu/sqlite"
	"github.com/hospadmin/hospital-admin/internal/role"
	rolesqlite "github.com/hospadmin/hospital-admin/internal/role/sqlite"
	"github.com/hospadmin/hospital-admin/internal/system"
	systemsqlite "github.com/hospadmin/hospital-admin/internal/system/sqlite"
	"github.com/hospadmin/hospital-admin/internal/transport"
	"github.com/hospadmin/hospital-admin/internal/transport/middleware"
	"github.com/hospadmin/hospital-admin/internal/transport/rest"
	"github.com/hospadmin/hospital-admin/internal/user"
	usersqlite "github.com/hospadmin/hospital-admin/internal/user/sqlite"
	"github.com/hospadmin/hospital-admin/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWith(logger.Options{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	})
	lg := logger.LoggerWrapper()

	db, sq, err := initDB(cfg.Database)
	if err != nil {
		lg.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	handlers, session := buildHandlers(cfg, db, sq, lg)

	sqlDB, err := db.DB()
	if err != nil {
		lg.Error("failed to access database handle", "error", err)
		os.Exit(1)
	}
	rest.RegisterAllRoutes(router, sqlDB, handlers, session, cfg.Server.AllowedOrigins, lg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("server shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			lg.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("server stopped")
}

// initDB opens the single-file database, creating the parent directory on
// first run, and wraps the same connection for the aggregate queries.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids busy errors.
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, sqlx.NewDb(sqlDB, "sqlite3"), nil
}

func buildHandlers(cfg *internal.Config, db *gorm.DB, sq *sqlx.DB, lg *slog.Logger) (rest.Handlers, *middleware.SessionMiddleware) {
	base := transport.NewBaseHandler(lg, os.Getenv("APP_ENV") == "production")
	recorder := audit.NewRecorder(auditsqlite.NewAuditRepository(db), lg)

	tokens := auth.NewJWTTokenService(cfg.Security.JWTSecret, cfg.Security.TokenDuration)
	menuRepo := menusqlite.NewMenuRepository(db)
	authService := auth.NewService(
		authsqlite.NewAuthRepository(db), menuRepo, tokens, recorder, cfg.Security.BCryptCost, lg)

	userService := user.NewService(usersqlite.NewUserRepository(db), recorder, cfg.Security.BCryptCost, lg)
	roleService := role.NewService(rolesqlite.NewRoleRepository(db), recorder, lg)
	menuService := menu.NewService(menuRepo, recorder, lg)
	departmentService := department.NewService(departmentsqlite.NewDepartmentRepository(db), recorder, lg)
	systemService := system.NewService(
		systemsqlite.NewConfigRepository(db),
		systemsqlite.NewLogRepository(db),
		systemsqlite.NewStatsRepository(sq),
		recorder, lg)

	employeeService := employee.NewService(employeesqlite.NewEmployeeRepository(db, sq), recorder, lg)
	recruitmentService := recruitment.NewService(recruitmentsqlite.NewRecruitmentRepository(db, sq), recorder, lg)
	attendanceService := attendance.NewService(attendancesqlite.NewAttendanceRepository(db, sq), recorder, lg)
	leaveService := leave.NewService(leavesqlite.NewLeaveRepository(db, sq), recorder, lg)
	performanceService := performance.NewService(performancesqlite.NewPerformanceRepository(db, sq), recorder, lg)
	salaryService := salary.NewService(salarysqlite.NewSalaryRepository(db, sq), recorder, lg)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(base, authService),
		User:        user.NewHandler(base, userService),
		Role:        role.NewHandler(base, roleService),
		Menu:        menu.NewHandler(base, menuService),
		Department:  department.NewHandler(base, departmentService),
		System:      system.NewHandler(base, systemService),
		Employee:    employee.NewHandler(base, employeeService),
		Recruitment: recruitment.NewHandler(base, recruitmentService),
		Attendance:  attendance.NewHandler(base, attendanceService),
		Leave:       leave.NewHandler(base, leaveService),
		Performance: performance.NewHandler(base, performanceService),
		Salary:      salary.NewHandler(base, salaryService),
	}

	session := middleware.NewSessionMiddleware(tokens, authService, lg)
	return handlers, session
}
