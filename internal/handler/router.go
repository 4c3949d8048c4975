package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhouzirui/lingua-channel/internal/handler/channel"
	middlewarePkg "github.com/zhouzirui/lingua-channel/internal/middleware"
)

// NewRouter wires HTTP routes to core services. Every channel route sits
// behind the shared-secret guard; /metrics does not.
func NewRouter(authKey string, channelHandler *channel.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(protected chi.Router) {
		protected.Use(middlewarePkg.RequireAuthKey(authKey))
		channelHandler.RegisterRoutes(protected)
	})

	return r
}
