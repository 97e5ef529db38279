package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"rsvpd/entity"
	"rsvpd/internal/http-server/cookie"
	"rsvpd/internal/http-server/handlers/errors"
	"rsvpd/lib/api/cont"
	"rsvpd/lib/api/response"
	"rsvpd/lib/sl"
)

type Core interface {
	RedeemCode(ctx context.Context, current *entity.Session, req *entity.RedeemCode) (*entity.Session, *entity.RedeemResult, error)
	AdminLogin(ctx context.Context, current *entity.Session, req *entity.AdminLogin) (*entity.Session, *entity.AdminLoginResult, error)
	Logout(ctx context.Context, session *entity.Session) error
	SessionInfo(ctx context.Context, session *entity.Session) (*entity.SessionInfo, error)
	SessionLifetime() time.Duration
}

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.auth"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func Redeem(log *slog.Logger, handler Core, jar cookie.Jar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req entity.RedeemCode
		if err := errors.Bind(r, &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		session, result, err := handler.RedeemCode(r.Context(), cont.GetSession(r.Context()), &req)
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}
		jar.Set(w, session.Token, handler.SessionLifetime())

		render.JSON(w, r, response.Ok(result))
	}
}

func Login(log *slog.Logger, handler Core, jar cookie.Jar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req entity.AdminLogin
		if err := errors.Bind(r, &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		session, result, err := handler.AdminLogin(r.Context(), cont.GetSession(r.Context()), &req)
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}
		jar.Set(w, session.Token, handler.SessionLifetime())

		render.JSON(w, r, response.Ok(result))
	}
}

func Logout(log *slog.Logger, handler Core, jar cookie.Jar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if err := handler.Logout(r.Context(), cont.GetSession(r.Context())); err != nil {
			errors.Render(logger, w, r, err)
			return
		}
		jar.Clear(w)

		render.NoContent(w, r)
	}
}

func Session(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		info, err := handler.SessionInfo(r.Context(), cont.GetSession(r.Context()))
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(info))
	}
}
