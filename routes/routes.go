package routes

import (
	"github.com/Dosada05/event-hub/handlers"
	"github.com/Dosada05/event-hub/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	hubHandler *handlers.HubHandler,
	rosterHandler *handlers.RosterHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// Live update rooms. The websocket carries no mutations, so token auth is
	// not required to subscribe; everything sensitive stays behind the REST
	// endpoints below.
	router.Get("/ws/events/{eventID}", webSocketHandler.ServeEventRoom)
	router.Get("/ws/teams/{teamID}", webSocketHandler.ServeTeamRoom)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Route("/entries/{entryID}", func(r chi.Router) {
			r.Get("/snapshot", hubHandler.GetSnapshot)
			r.Post("/check-in", hubHandler.ConfirmCheckIn)
		})

		r.Route("/events/{eventID}", func(r chi.Router) {
			r.Get("/announcements", hubHandler.ListAnnouncements)
			r.Get("/roster", hubHandler.GetEventRoster)
		})

		r.Route("/teams/{teamID}/roster", func(r chi.Router) {
			r.Get("/", rosterHandler.GetTeamRoster)
			r.Patch("/{membershipID}/slot", rosterHandler.SwapSlot)
		})
	})
}
