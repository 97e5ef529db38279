package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"rsvpd/entity"
	"rsvpd/internal/config"
	"rsvpd/internal/http-server/cookie"
	"rsvpd/internal/http-server/handlers/admin"
	"rsvpd/internal/http-server/handlers/auth"
	"rsvpd/internal/http-server/handlers/errors"
	"rsvpd/internal/http-server/handlers/events"
	"rsvpd/internal/http-server/handlers/health"
	"rsvpd/internal/http-server/handlers/rsvp"
	"rsvpd/internal/http-server/middleware/session"
	"rsvpd/internal/http-server/middleware/timeout"
	"rsvpd/lib/sl"
)

const requestTimeout = 10 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	session.Resolver
	auth.Core
	rsvp.Core
	admin.Core
	events.Core
	health.Core
}

// NewRouter wires every route; protected groups are guarded by session type.
func NewRouter(conf *config.Config, log *slog.Logger, handler Handler) http.Handler {
	jar := cookie.Jar{Name: conf.Session.CookieName, Secure: conf.SecureCookies()}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(timeout.Timeout(requestTimeout))
	if len(conf.Cors.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   conf.Cors.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/health", health.Check(log, handler))

	router.Group(func(r chi.Router) {
		r.Use(session.New(log, handler, jar))

		r.Get("/events", events.List(log, handler))

		r.Route("/auth", func(a chi.Router) {
			a.Post("/code", auth.Redeem(log, handler, jar))
			a.Post("/admin/login", auth.Login(log, handler, jar))
			a.Post("/logout", auth.Logout(log, handler, jar))
			a.Get("/session", auth.Session(log, handler))
		})

		r.Route("/rsvp", func(g chi.Router) {
			g.Use(session.Require(entity.SessionGuest))
			g.Get("/", rsvp.Status(log, handler))
			g.Post("/", rsvp.Submit(log, handler))
		})

		r.Route("/admin", func(a chi.Router) {
			a.Use(session.Require(entity.SessionAdmin))
			a.Get("/dashboard", admin.Dashboard(log, handler))
			a.Post("/settings/password", admin.ChangePassword(log, handler))
			a.Post("/codes", admin.IssueAdminCode(log, handler))
			a.Route("/guests", func(g chi.Router) {
				g.Get("/", admin.Guests(log, handler))
				g.Post("/", admin.CreateGuest(log, handler))
				g.Put("/{id}", admin.UpdateGuest(log, handler))
				g.Delete("/{id}", admin.DeleteGuest(log, handler))
				g.Post("/{id}/code", admin.RegenerateCode(log, handler))
			})
			a.Route("/events", func(e chi.Router) {
				e.Get("/", admin.Events(log, handler))
				e.Post("/", admin.CreateEvent(log, handler))
				e.Put("/{id}", admin.UpdateEvent(log, handler))
				e.Delete("/{id}", admin.DeleteEvent(log, handler))
			})
		})
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      NewRouter(conf, log, handler),
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server
}

// Start serves until Shutdown; it returns http.ErrServerClosed after a
// graceful stop.
func (s *Server) Start() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIp, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	return s.httpServer.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down api server")
	return s.httpServer.Shutdown(ctx)
}
