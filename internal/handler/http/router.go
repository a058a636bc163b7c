package http

import (
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Reconciliation ReconciliationHandler
	Payroll        PayrollHandler
	Payment        PaymentHandler
	Attendance     AttendanceHandler
	Leave          LeaveHandler
	Session        SessionHandler
}

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceCreate))
					r.Use(middleware.RequireEmployee)
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
				})
				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).
					Post("/absences", h.Attendance.MarkAbsence)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).
					Post("/", h.Leave.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).
					Post("/{id}/review", h.Leave.ReviewRequest)
			})

			r.Route("/session-realizations", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionSessionCreate)).
					Post("/", h.Session.SubmitRealization)
				r.With(middleware.RequirePermission(user.PermissionSessionApprove)).
					Post("/{id}/review", h.Session.ReviewRealization)
			})

			r.Route("/reconciliations", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollReconcile)).
					Post("/", h.Reconciliation.Reconcile)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/{period}/aggregates", h.Reconciliation.ListAggregates)
					r.Get("/{period}/aggregates/{employeeID}", h.Reconciliation.GetAggregate)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollCompose)).
					Post("/", h.Payroll.ComposePayroll)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", h.Payroll.ListPayrolls)
					r.Get("/export", h.Payroll.ExportRegister)
					r.Get("/{id}", h.Payroll.GetPayroll)
				})
				r.With(middleware.RequirePermission(user.PermissionPayrollFinalize)).
					Post("/{id}/finalize", h.Payroll.FinalizePayroll)
				r.With(middleware.RequirePermission(user.PermissionPaymentRecord)).
					Post("/{id}/payment", h.Payment.RecordPayment)
			})

			r.Route("/payments", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPaymentRecord)).
					Post("/{id}/proof", h.Payment.UploadProof)
			})
		})
	})
	return r
}
