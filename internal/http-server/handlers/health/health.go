package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"rsvpd/lib/api/response"
	"rsvpd/lib/sl"
)

type Core interface {
	Health(ctx context.Context) error
}

type Status struct {
	Database string `json:"database"`
}

func Check(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler.Health(r.Context()); err != nil {
			log.With(sl.Module("http.handlers.health")).Error("health check", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Database unavailable"))
			return
		}
		render.JSON(w, r, response.Ok(Status{Database: "ok"}))
	}
}
