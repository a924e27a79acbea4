// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the composition root of the member HTTP surface.

Every request passes the same chain: request id, access log, timeout, rate
limit, panic recovery, CORS, then token authentication. Handlers below the
chain only read the principal it leaves in the request context.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/advisor/internal/platform/apperr"
	"github.com/taibuivan/advisor/internal/platform/config"
	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/platform/middleware"
	"github.com/taibuivan/advisor/internal/platform/respond"
	"github.com/taibuivan/advisor/internal/users/account"
)

// Handlers are the endpoint groups mounted under the chain.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	// Account serves /api/v1/members and /api/v1/admin/members.
	Account *account.Handler
}

// Security is what the authentication filter runs on.
type Security struct {
	Authenticator middleware.TokenAuthenticator
	Messages      middleware.MessageResolver

	// Hooks is empty when post-auth work is disabled.
	Hooks []middleware.PostAuthHook
}

// Server owns the router and the listening [http.Server].
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	log        *slog.Logger
}

// NewServer builds the router. ctx bounds background middleware work such as
// the rate limiter sweep.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, security Security, handlers Handlers) *Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst),
		middleware.PanicRecovery(),
		middleware.CORS(cfg),
		middleware.Authenticate(security.Authenticator, security.Messages, security.Hooks...),
		chimw.CleanPath,
	)

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, &apperr.AppError{
			Code:       "METHOD_NOT_ALLOWED",
			Message:    "Method not allowed",
			HTTPStatus: http.StatusMethodNotAllowed,
		})
	})

	router.Get("/health", handlers.Liveness)
	router.Get("/ready", handlers.Readiness)

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/members", handlers.Account.Routes())
		v1.Mount("/admin/members", handlers.Account.AdminRoutes())
	})

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
		},
	}
}

// Handler returns the root router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. After Shutdown it returns
// [http.ErrServerClosed].
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
