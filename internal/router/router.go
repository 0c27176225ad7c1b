package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/momentum-app/momentum-api/internal/api/auth"
	"github.com/momentum-app/momentum-api/internal/api/food"
	"github.com/momentum-app/momentum-api/internal/api/profile"
	"github.com/momentum-app/momentum-api/internal/api/tracker"
)

// Config contains the dependencies needed for the router setup.
type Config struct {
	AuthHandler            *auth.AuthHandler
	ProfileHandler         *profile.ProfileHandler
	TrackerHandler         *tracker.TrackerHandler
	FoodHandler            *food.FoodHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
	MetricsHandler         http.Handler
}

// SetupRouter wires all routes. Server-wide middleware (request id,
// logging, recoverer) is applied before mounting this router in main.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes.
		r.Group(func(r chi.Router) {
			r.Post("/auth/signup", cfg.AuthHandler.Signup)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.Refresh)
		})

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Patch("/auth/account", cfg.AuthHandler.UpdateAccount)

			r.Get("/profile", cfg.ProfileHandler.GetProfile)
			r.Patch("/profile", cfg.ProfileHandler.UpdateProfile)

			r.Get("/workouts", cfg.TrackerHandler.ListWorkouts)
			r.Post("/workouts", cfg.TrackerHandler.CreateWorkout)
			r.Delete("/workouts/{id}", cfg.TrackerHandler.DeleteWorkout)

			r.Get("/nutrition", cfg.TrackerHandler.ListNutrition)
			r.Post("/nutrition", cfg.TrackerHandler.CreateNutrition)
			r.Delete("/nutrition/{id}", cfg.TrackerHandler.DeleteNutrition)

			r.Get("/goals", cfg.TrackerHandler.ListGoals)
			r.Post("/goals", cfg.TrackerHandler.CreateGoal)
			r.Get("/goals/{id}", cfg.TrackerHandler.GetGoal)
			r.Put("/goals/{id}", cfg.TrackerHandler.UpdateGoal)
			r.Patch("/goals/{id}", cfg.TrackerHandler.UpdateGoal)
			r.Delete("/goals/{id}", cfg.TrackerHandler.DeleteGoal)

			r.Get("/mindfulness", cfg.TrackerHandler.ListMindfulness)
			r.Post("/mindfulness", cfg.TrackerHandler.CreateMindfulness)
			r.Delete("/mindfulness/{id}", cfg.TrackerHandler.DeleteMindfulness)

			r.Get("/food/search", cfg.FoodHandler.Search)
		})
	})

	return r
}
