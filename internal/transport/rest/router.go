package rest

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/hospadmin/hospital-admin/internal/auth"
	"github.com/hospadmin/hospital-admin/internal/department"
	"github.com/hospadmin/hospital-admin/internal/hr/attendance"
	"github.com/hospadmin/hospital-admin/internal/hr/employee"
	"github.com/hospadmin/hospital-admin/internal/hr/leave"
	"github.com/hospadmin/hospital-admin/internal/hr/performance"
	"github.com/hospadmin/hospital-admin/internal/hr/recruitment"
	"github.com/hospadmin/hospital-admin/internal/hr/salary"
	"github.com/hospadmin/hospital-admin/internal/menu"
	"github.com/hospadmin/hospital-admin/internal/role"
	"github.com/hospadmin/hospital-admin/internal/system"
	"github.com/hospadmin/hospital-admin/internal/transport/middleware"
	"github.com/hospadmin/hospital-admin/internal/transport/swagger"
	"github.com/hospadmin/hospital-admin/internal/user"
)

// Handlers collects every domain handler registered on the router.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Role        *role.Handler
	Menu        *menu.Handler
	Department  *department.Handler
	System      *system.Handler
	Employee    *employee.Handler
	Recruitment *recruitment.Handler
	Attendance  *attendance.Handler
	Leave       *leave.Handler
	Performance *performance.Handler
	Salary      *salary.Handler
}

// RegisterAllRoutes wires the full API surface. Everything under /api except
// login and health runs behind the session middleware; administration routes
// additionally require the matching permission token.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, session *middleware.SessionMiddleware, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "error",
			"message": "route not found",
		})
	})

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	perm := func(token string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(token, logger)
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(session.Handler)

			pr.Route("/auth", func(ar chi.Router) {
				ar.Post("/logout", h.Auth.Logout)
				ar.Get("/profile", h.Auth.Profile)
				ar.Get("/menus", h.Auth.Menus)
				ar.Post("/change-password", h.Auth.ChangePassword)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.With(perm("user:view")).Get("/", h.User.List)
				ur.With(perm("user:view")).Get("/{id}", h.User.Get)
				ur.With(perm("user:create")).Post("/", h.User.Create)
				ur.With(perm("user:update")).Put("/{id}", h.User.Update)
				ur.With(perm("user:delete")).Delete("/{id}", h.User.Delete)
				ur.With(perm("user:update")).Post("/{id}/reset-password", h.User.ResetPassword)
			})

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(perm("role:view")).Get("/", h.Role.List)
				rr.With(perm("role:view")).Get("/all", h.Role.All)
				rr.With(perm("role:view")).Get("/{id}", h.Role.Get)
				rr.With(perm("role:create")).Post("/", h.Role.Create)
				rr.With(perm("role:update")).Put("/{id}", h.Role.Update)
				rr.With(perm("role:delete")).Delete("/{id}", h.Role.Delete)
			})

			pr.Route("/menus", func(mr chi.Router) {
				mr.With(perm("menu:view")).Get("/", h.Menu.Tree)
				mr.With(perm("menu:view")).Get("/{id}", h.Menu.Get)
				mr.With(perm("menu:create")).Post("/", h.Menu.Create)
				mr.With(perm("menu:update")).Put("/{id}", h.Menu.Update)
				mr.With(perm("menu:delete")).Delete("/{id}", h.Menu.Delete)
			})

			pr.Route("/system", func(sr chi.Router) {
				sr.With(perm("department:view")).Get("/departments", h.Department.Tree)
				sr.With(perm("department:view")).Get("/departments/all", h.Department.All)
				sr.With(perm("department:view")).Get("/departments/{id}", h.Department.Get)
				sr.With(perm("department:create")).Post("/departments", h.Department.Create)
				sr.With(perm("department:update")).Put("/departments/{id}", h.Department.Update)
				sr.With(perm("department:delete")).Delete("/departments/{id}", h.Department.Delete)

				sr.With(perm("system:config")).Get("/config", h.System.ConfigList)
				sr.With(perm("system:config")).Put("/config/{key}", h.System.ConfigUpdate)
				sr.With(perm("system:log")).Get("/logs", h.System.Logs)
				sr.With(perm("system:log")).Delete("/logs/cleanup", h.System.CleanupLogs)
				sr.With(perm("system:view")).Get("/info", h.System.Info)
			})

			pr.Route("/hr", func(hr chi.Router) {
				hr.Route("/employees", func(er chi.Router) {
					er.Get("/", h.Employee.List)
					er.Get("/stats/summary", h.Employee.Stats)
					er.Get("/export", h.Employee.Export)
					er.Get("/{id}", h.Employee.Get)
					er.Post("/", h.Employee.Create)
					er.Put("/{id}", h.Employee.Update)
					er.Delete("/{id}", h.Employee.Delete)
					er.Delete("/", h.Employee.DeleteBatch)
				})

				hr.Route("/recruitment", func(rr chi.Router) {
					rr.Get("/positions", h.Recruitment.ListPositions)
					rr.Get("/positions/{id}", h.Recruitment.GetPosition)
					rr.Post("/positions", h.Recruitment.CreatePosition)
					rr.Put("/positions/{id}", h.Recruitment.UpdatePosition)
					rr.Delete("/positions/{id}", h.Recruitment.DeletePosition)
					rr.Get("/applications", h.Recruitment.ListApplications)
					rr.Get("/applications/{id}", h.Recruitment.GetApplication)
					rr.Post("/applications", h.Recruitment.CreateApplication)
					rr.Put("/applications/{id}/status", h.Recruitment.UpdateApplicationStatus)
					rr.Get("/stats", h.Recruitment.Stats)
				})

				hr.Route("/attendance", func(ar chi.Router) {
					ar.Get("/records", h.Attendance.ListRecords)
					ar.Get("/records/{id}", h.Attendance.GetRecord)
					ar.Post("/records", h.Attendance.SaveRecord)
					ar.Post("/punch", h.Attendance.Punch)
					ar.Get("/schedules", h.Attendance.ListSchedules)
					ar.Post("/schedules", h.Attendance.CreateSchedule)
					ar.Post("/schedules/batch", h.Attendance.CreateScheduleBatch)
					ar.Put("/schedules/{id}", h.Attendance.UpdateSchedule)
					ar.Delete("/schedules/{id}", h.Attendance.DeleteSchedule)
					ar.Get("/stats", h.Attendance.Stats)
					ar.Get("/monthly-report/{id}", h.Attendance.MonthlyReport)
				})

				hr.Route("/leave", func(lr chi.Router) {
					lr.Get("/requests", h.Leave.ListRequests)
					lr.Get("/requests/{id}", h.Leave.GetRequest)
					lr.Post("/requests", h.Leave.CreateRequest)
					lr.Put("/requests/{id}", h.Leave.UpdateRequest)
					lr.Delete("/requests/{id}", h.Leave.DeleteRequest)
					lr.Put("/requests/{id}/approve", h.Leave.Approve)
					lr.Get("/compensatory", h.Leave.ListCompensatory)
					lr.Post("/compensatory", h.Leave.CreateCompensatory)
					lr.Put("/compensatory/{id}/use", h.Leave.UseCompensatory)
					lr.Get("/stats", h.Leave.Stats)
					lr.Get("/balance/{id}", h.Leave.Balance)
				})

				hr.Route("/performance", func(fr chi.Router) {
					fr.Get("/evaluations", h.Performance.List)
					fr.Get("/evaluations/{id}", h.Performance.Get)
					fr.Post("/evaluations", h.Performance.Create)
					fr.Put("/evaluations/{id}", h.Performance.Update)
					fr.Put("/evaluations/{id}/submit", h.Performance.Submit)
					fr.Delete("/evaluations/{id}", h.Performance.Delete)
					fr.Post("/evaluations/batch", h.Performance.CreateBatch)
					fr.Get("/stats", h.Performance.Stats)
					fr.Get("/history/{id}", h.Performance.History)
				})

				hr.Route("/salary", func(sr chi.Router) {
					sr.Get("/records", h.Salary.ListRecords)
					sr.Get("/records/{id}", h.Salary.GetRecord)
					sr.Post("/records", h.Salary.CreateRecord)
					sr.Put("/records/{id}", h.Salary.UpdateRecord)
					sr.Put("/records/{id}/pay", h.Salary.Pay)
					sr.Put("/records/batch-pay", h.Salary.BatchPay)
					sr.Delete("/records/{id}", h.Salary.DeleteRecord)
					sr.Get("/benefits", h.Salary.ListBenefits)
					sr.Post("/benefits", h.Salary.CreateBenefit)
					sr.Put("/benefits/{id}", h.Salary.UpdateBenefit)
					sr.Get("/employee-benefits", h.Salary.ListEmployeeBenefits)
					sr.Post("/employee-benefits", h.Salary.AssignBenefit)
					sr.Get("/stats", h.Salary.Stats)
					sr.Get("/payslip/{id}", h.Salary.Payslip)
					sr.Get("/export", h.Salary.Export)
				})
			})
		})
	})
}
