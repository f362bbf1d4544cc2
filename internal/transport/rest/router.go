package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/bpohub/workforce/internal/auth"
	"github.com/bpohub/workforce/internal/dtr"
	"github.com/bpohub/workforce/internal/employee"
	"github.com/bpohub/workforce/internal/paydispute"
	"github.com/bpohub/workforce/internal/rbac"
	"github.com/bpohub/workforce/internal/schedule"
	"github.com/bpohub/workforce/internal/transport/middleware"
	"github.com/bpohub/workforce/internal/transport/swagger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	Employee *employee.Handler
	Schedule *schedule.Handler
	DTR      *dtr.Handler
	Dispute  *paydispute.Handler
	RBAC     *rbac.Handler
}

// RegisterAllRoutes mounts the API under /api/v1. Every domain route sits
// behind the auth middleware plus a module/action permission gate; the gate
// resolves against the caller's role defaults and per-user overrides.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, gate *rbac.Gate, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)
			if h.RBAC != nil {
				pr.Get("/me/modules", h.RBAC.GetMyModules)
			}

			if h.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Group(func(vr chi.Router) {
						vr.Use(gate.Require(rbac.ModuleEmployeeDirectory, rbac.ActionView))
						vr.Get("/", h.Employee.List)
						vr.Get("/statistics", h.Employee.Statistics)
						vr.Get("/filter-options", h.Employee.FilterOptions)
						vr.Get("/{id}", h.Employee.Get)
					})
					er.With(gate.Require(rbac.ModuleEmployeeDirectory, rbac.ActionCreate)).
						Post("/", h.Employee.Create)
					er.Group(func(mr chi.Router) {
						mr.Use(gate.Require(rbac.ModuleEmployeeDirectory, rbac.ActionEdit))
						mr.Patch("/{id}", h.Employee.Update)
						mr.Post("/bulk-status", h.Employee.BulkStatus)
					})
					er.With(gate.Require(rbac.ModuleEmployeeDirectory, rbac.ActionDelete)).
						Delete("/{id}", h.Employee.Delete)
				})
			}

			if h.Schedule != nil {
				pr.Route("/schedules", func(sr chi.Router) {
					sr.Group(func(vr chi.Router) {
						vr.Use(gate.Require(rbac.ModuleSchedule, rbac.ActionView))
						vr.Get("/weekly", h.Schedule.Weekly)
						vr.Get("/export", h.Schedule.Export)
					})
					sr.Group(func(mr chi.Router) {
						mr.Use(gate.Require(rbac.ModuleSchedule, rbac.ActionEdit))
						mr.Post("/shift", h.Schedule.SaveShift)
						mr.Post("/publish", h.Schedule.Publish)
					})
					sr.With(gate.Require(rbac.ModuleSchedule, rbac.ActionCreate)).
						Post("/upload", h.Schedule.BulkUpload)
				})
			}

			if h.DTR != nil {
				pr.Route("/dtr", func(dr chi.Router) {
					dr.Group(func(vr chi.Router) {
						vr.Use(gate.Require(rbac.ModuleDTR, rbac.ActionView))
						vr.Get("/", h.DTR.List)
						vr.Get("/statistics", h.DTR.Statistics)
						vr.Get("/filter-options", h.DTR.FilterOptions)
						vr.Get("/export", h.DTR.Export)
						vr.Get("/{id}", h.DTR.Get)
					})
					dr.Group(func(cr chi.Router) {
						cr.Use(gate.Require(rbac.ModuleDTR, rbac.ActionCreate))
						cr.Post("/", h.DTR.Create)
						cr.Post("/upload", h.DTR.BulkUpload)
					})
					dr.With(gate.Require(rbac.ModuleDTR, rbac.ActionEdit)).
						Patch("/{id}", h.DTR.Update)
					dr.With(gate.Require(rbac.ModuleDTR, rbac.ActionDelete)).
						Delete("/{id}", h.DTR.Delete)
				})
			}

			if h.Dispute != nil {
				pr.Route("/pay-disputes", func(dr chi.Router) {
					dr.Group(func(vr chi.Router) {
						vr.Use(gate.Require(rbac.ModulePayDisputes, rbac.ActionView))
						vr.Get("/", h.Dispute.List)
						vr.Get("/statistics", h.Dispute.Statistics)
						vr.Get("/filter-options", h.Dispute.FilterOptions)
						vr.Get("/ref/{refNo}", h.Dispute.GetByRefNo)
						vr.Get("/{id}", h.Dispute.Get)
						vr.Get("/{id}/comments", h.Dispute.Comments)
					})
					dr.Group(func(cr chi.Router) {
						cr.Use(gate.Require(rbac.ModulePayDisputes, rbac.ActionCreate))
						cr.Post("/", h.Dispute.Create)
						cr.Post("/{id}/comments", h.Dispute.AddComment)
					})
					dr.With(gate.Require(rbac.ModulePayDisputes, rbac.ActionEdit)).
						Patch("/{id}", h.Dispute.Update)
					dr.With(gate.Require(rbac.ModulePayDisputes, rbac.ActionDelete)).
						Delete("/{id}", h.Dispute.Delete)
				})
			}

			if h.RBAC != nil {
				pr.Route("/roles", func(rr chi.Router) {
					rr.Group(func(vr chi.Router) {
						vr.Use(gate.Require(rbac.ModuleRoleManagement, rbac.ActionView))
						vr.Get("/", h.RBAC.ListRoles)
						vr.Get("/{id}", h.RBAC.GetRole)
					})
					rr.With(gate.Require(rbac.ModuleRoleManagement, rbac.ActionCreate)).
						Post("/", h.RBAC.CreateRole)
					rr.Group(func(mr chi.Router) {
						mr.Use(gate.Require(rbac.ModuleRoleManagement, rbac.ActionEdit))
						mr.Patch("/{id}", h.RBAC.UpdateRole)
						mr.Put("/{id}/permissions", h.RBAC.SetRoleDefault)
					})
					rr.With(gate.Require(rbac.ModuleRoleManagement, rbac.ActionDelete)).
						Delete("/{id}", h.RBAC.DeleteRole)
				})

				pr.With(gate.Require(rbac.ModuleRoleManagement, rbac.ActionView)).
					Get("/modules", h.RBAC.ListModules)

				pr.Route("/users/{id}/permissions", func(ur chi.Router) {
					ur.With(gate.Require(rbac.ModuleUserManagement, rbac.ActionView)).
						Get("/", h.RBAC.GetUserOverrides)
					ur.Group(func(mr chi.Router) {
						mr.Use(gate.Require(rbac.ModuleUserManagement, rbac.ActionEdit))
						mr.Post("/", h.RBAC.GrantUserOverride)
						mr.Delete("/{module}", h.RBAC.RevokeUserOverride)
					})
				})
			}
		})
	})
}
