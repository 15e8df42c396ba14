// Package routes wires handlers into the HTTP router.
package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/openclassical/league-engine/docs"
	"github.com/openclassical/league-engine/handlers"
	"github.com/openclassical/league-engine/middleware"
	"github.com/openclassical/league-engine/models"
	"github.com/openclassical/league-engine/services"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Leagues   *handlers.LeagueHandler
	Standings *handlers.StandingsHandler
	Knockout  *handlers.KnockoutHandler
	Auth      *handlers.AuthHandler
	WebSocket *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, auth services.AuthService) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.RateLimit(20, 40))

	router.Post("/auth/login", h.Auth.Login)
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(auth))
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Post("/auth/register", h.Auth.Register)
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Get("/", h.Leagues.List)
		r.Get("/{tag}", h.Leagues.GetByTag)
		r.Get("/{tag}/seasons", h.Leagues.ListSeasons)
		r.Get("/{tag}/standings", h.Leagues.Standings)
	})

	router.Route("/seasons/{id}", func(r chi.Router) {
		r.Get("/standings", h.Standings.SeasonStandings)
		r.Get("/tournament", h.Standings.SeasonTournament)
		r.Get("/bracket", h.Knockout.GetBracket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth))
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleModerator))
			r.Post("/bracket", h.Knockout.CreateBracket)
			r.Post("/bracket/results", h.Knockout.RecordResult)
			r.Post("/bracket/tiebreaks", h.Knockout.RecordManualTiebreak)
			r.Post("/bracket/legs", h.Knockout.GenerateNextLeg)
			r.Post("/bracket/advance", h.Knockout.AdvanceRound)
			r.Post("/snapshots", h.Standings.ArchiveSnapshot)
		})
	})

	router.Get("/ws/seasons/{id}", h.WebSocket.ServeSeason)

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return router
}
