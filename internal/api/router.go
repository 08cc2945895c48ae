package api

import (
	"net/http"

	"github.com/arjun/party-games-website/internal/api/handlers"
	"github.com/arjun/party-games-website/internal/api/middleware"
	"github.com/arjun/party-games-website/internal/config"
	"github.com/arjun/party-games-website/internal/service"
	"github.com/arjun/party-games-website/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	roomHandler := handlers.NewRoomHandler(services.Room, hub)
	gameHandler := handlers.NewGameHandler(services.Game, services.Room, hub)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/guest", authHandler.Guest)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/rooms", func(r chi.Router) {
				r.Post("/", roomHandler.Create)
				r.Get("/{idOrCode}", roomHandler.Get)
				r.Post("/{idOrCode}/join", roomHandler.Join)
				r.Post("/{idOrCode}/leave", roomHandler.Leave)
				r.Get("/{idOrCode}/history", gameHandler.History)

				// Host-only round control
				r.Post("/{idOrCode}/start", gameHandler.Start)
				r.Post("/{idOrCode}/next", gameHandler.NextRound)
				r.Post("/{idOrCode}/cancel", gameHandler.Cancel)

				// Classic round actions
				r.Post("/{idOrCode}/claim", gameHandler.Claim)
				r.Post("/{idOrCode}/accuse", gameHandler.Accuse)
				r.Post("/{idOrCode}/resolve", gameHandler.Resolve)

				// Elimination round actions
				r.Post("/{idOrCode}/kill", gameHandler.Kill)
				r.Post("/{idOrCode}/arrest", gameHandler.Arrest)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me/rooms", roomHandler.GetUserRooms)
			})
		})
	})

	// WebSocket endpoint (token auth via query param)
	r.Get("/ws", wsHandler.Handle)

	return r
}
