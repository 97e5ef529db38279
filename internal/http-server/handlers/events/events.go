package events

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"rsvpd/entity"
	"rsvpd/internal/http-server/handlers/errors"
	"rsvpd/lib/api/response"
	"rsvpd/lib/sl"
)

type Core interface {
	Events(ctx context.Context) (*entity.EventList, error)
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.events"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		list, err := handler.Events(r.Context())
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(list))
	}
}
