package server

import (
	"time"

	"github.com/adminboard/apiserver/internal/handlers"
	"github.com/adminboard/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Services bundles the use-case layer the router dispatches to. Avatars is
// nil when no object storage is configured, which leaves /api/avatars
// unmounted.
type Services struct {
	Orders  *services.OrderService
	Tasks   *services.TaskService
	Events  *services.EventService
	Metrics *services.MetricsService
	Users   *services.UserService
	Avatars *services.AvatarService
}

// NewRouter builds the chi router with middleware and every API route.
func NewRouter(svcs Services, logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.Tracing,
		middleware.Recoverer,
		handlers.RequestLogger(logger),
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)

	router.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			handlers.OrderRouter(r, svcs.Orders, logger)
		})
		r.Route("/tasks", func(r chi.Router) {
			handlers.TaskRouter(r, svcs.Tasks, logger)
		})
		r.Route("/events", func(r chi.Router) {
			handlers.EventRouter(r, svcs.Events, logger)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, svcs.Users, logger)
		})
		handlers.MetricsRouter(r, svcs.Metrics, logger)
		if svcs.Avatars != nil {
			r.Route("/avatars", func(r chi.Router) {
				handlers.AvatarRouter(r, svcs.Avatars, logger)
			})
		}
	})

	return router
}
