package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/ideahub/ideahub/internal/api/handler"
	"github.com/ideahub/ideahub/internal/api/middleware"
	"github.com/ideahub/ideahub/internal/auth"
	"github.com/ideahub/ideahub/internal/directory"
	"github.com/ideahub/ideahub/internal/formation"
	"github.com/ideahub/ideahub/internal/idea"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger        handler.DBPinger
	Version         string
	AuthService     *auth.Service
	Ideas           idea.Repository
	Formation       *formation.Service
	Directory       directory.Directory
	DefaultTeamSize int
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	userHandler := handler.NewUserHandler(deps.AuthService)
	r.Post("/users", userHandler.Register)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService))

		r.Get("/me", userHandler.Me)

		candidateHandler := handler.NewCandidateHandler(deps.Directory)
		r.Get("/candidates", candidateHandler.Search)

		ideaHandler := handler.NewIdeaHandler(deps.Ideas, deps.DefaultTeamSize)
		teamHandler := handler.NewTeamHandler(deps.Formation)
		approachHandler := handler.NewApproachHandler(deps.Formation)

		r.Route("/ideas", func(r chi.Router) {
			r.Post("/", ideaHandler.Create)
			r.Get("/", ideaHandler.List)
			r.Get("/{id}", ideaHandler.GetByID)

			r.Route("/{id}/roles", func(r chi.Router) {
				r.Post("/", teamHandler.AddRole)
				r.Delete("/{roleId}", teamHandler.RemoveRole)
			})

			r.Route("/{id}/team", func(r chi.Router) {
				r.Get("/", teamHandler.GetStructure)
				r.Get("/metrics", teamHandler.GetMetrics)
				r.Get("/conflict", teamHandler.CheckConflict)
				r.Get("/suggestions", teamHandler.GetSuggestions)

				r.Route("/members/{memberId}", func(r chi.Router) {
					r.Patch("/", teamHandler.UpdateMember)
					r.Delete("/", teamHandler.RemoveMember)
					r.Post("/subroles", teamHandler.AddSubrole)
					r.Delete("/subroles/{subroleId}", teamHandler.RemoveSubrole)
				})
			})

			r.Route("/{id}/approaches", func(r chi.Router) {
				r.Post("/", approachHandler.Create)
				r.Patch("/{approachId}", approachHandler.UpdateStatus)
			})
		})
	})

	return r
}
