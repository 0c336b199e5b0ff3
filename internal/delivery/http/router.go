package http

import (
	"log/slog"
	"net/http"

	"heritagecatalog/internal/delivery/http/controllers"
	"heritagecatalog/internal/delivery/http/middleware"
	"heritagecatalog/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events         *controllers.EventController
	Participations *controllers.ParticipationController
	Programs       *controllers.ProgramController
	Health         *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events", c.Events.ListEvents)
	mux.HandleFunc("POST /events", auth(c.Events.CreateEvent))
	mux.HandleFunc("GET /events/{id}", c.Events.GetEvent)
	mux.HandleFunc("PUT /events/{id}", auth(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", auth(c.Events.DeleteEvent))
	mux.HandleFunc("POST /events/{id}/works", auth(c.Events.AttachWork))
	mux.HandleFunc("POST /events/{id}/organizations", auth(c.Events.AttachOrganization))

	// Participants
	mux.HandleFunc("GET /events/{id}/participants", c.Participations.ListParticipants)
	mux.HandleFunc("POST /events/{id}/participants", auth(c.Participations.Enroll))
	mux.HandleFunc("DELETE /events/{id}/participants/me", auth(c.Participations.Withdraw))
	mux.HandleFunc("PATCH /events/{id}/participants/{userId}", auth(c.Participations.SetStatus))

	// Programs
	mux.HandleFunc("GET /events/{id}/programs", c.Programs.ListPrograms)
	mux.HandleFunc("POST /events/{id}/programs", auth(c.Programs.AddProgram))
	mux.HandleFunc("POST /programs/{id}/speakers", auth(c.Programs.AttachSpeakers))

	mux.HandleFunc("GET /health", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the request id, logging and CORS middleware.
func NewHandler(mux http.Handler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	return middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux)))
}
