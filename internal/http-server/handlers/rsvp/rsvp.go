package rsvp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"rsvpd/entity"
	"rsvpd/internal/http-server/handlers/errors"
	"rsvpd/lib/api/cont"
	"rsvpd/lib/api/response"
	"rsvpd/lib/sl"
)

// Core is reached only behind a guest session guard.
type Core interface {
	RsvpStatus(ctx context.Context, session *entity.Session) (*entity.RsvpStatus, error)
	SubmitRsvp(ctx context.Context, session *entity.Session, req *entity.SubmitRsvp) (*entity.RsvpStatus, error)
}

func Status(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.rsvp"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		status, err := handler.RsvpStatus(r.Context(), cont.GetSession(r.Context()))
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(status))
	}
}

func Submit(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.rsvp"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.SubmitRsvp
		if err := errors.Bind(r, &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}
		logger = logger.With(slog.Int("attendees", len(req.Attendees)))

		status, err := handler.SubmitRsvp(r.Context(), cont.GetSession(r.Context()), &req)
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(status))
	}
}
