package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"pitstop-backend/internal/handlers"
	"pitstop-backend/internal/middleware"
)

type Config struct {
	FrontendURL string
	JWTAuth     *middleware.JWTAuth
	Auth        *handlers.AuthHandler
	Chat        *handlers.ChatHandler
	Vehicle     *handlers.VehicleHandler
	User        *handlers.UserHandler
}

func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.FrontendURL))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Brute-force protection on credential endpoints only. Chat throughput is
	// bounded by the model service's own concurrency gate.
	authLimiter := middleware.NewRateLimiter(20, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.Refresh)
			r.Post("/logout", cfg.Auth.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.JWTAuth.Middleware)

			r.Post("/chat", cfg.Chat.Stream)
			r.Post("/explain-code", cfg.Chat.ExplainCode)

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", cfg.Chat.List)
				r.Post("/vehicle", cfg.Chat.StartVehicleChat)
				r.Get("/{id}/messages", cfg.Chat.Messages)
				r.Delete("/{id}", cfg.Chat.Delete)
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Post("/", cfg.Vehicle.Create)
				r.Get("/", cfg.Vehicle.List)
				r.Get("/{id}", cfg.Vehicle.Get)
				r.Put("/{id}", cfg.Vehicle.Update)
				r.Delete("/{id}", cfg.Vehicle.Delete)
			})

			r.Route("/user", func(r chi.Router) {
				r.Get("/me", cfg.User.GetMe)
				r.Put("/me", cfg.User.UpdateMe)
				r.Post("/me/password", cfg.User.ChangePassword)
				r.Delete("/me", cfg.User.DeleteMe)
			})
		})
	})

	return r
}
