package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"rsvpd/entity"
	"rsvpd/internal/http-server/handlers/errors"
	"rsvpd/lib/api/response"
)

func Events(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		list, err := handler.Events(r.Context())
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(list))
	}
}

func CreateEvent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req entity.EventRequest
		if err := errors.Bind(r, &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		event, err := handler.CreateEvent(r.Context(), &req)
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(event))
	}
}

func UpdateEvent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		logger := requestLogger(log, r).With(slog.String("event_id", id))

		var req entity.EventRequest
		if err := errors.Bind(r, &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		event, err := handler.UpdateEvent(r.Context(), id, &req)
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(event))
	}
}

func DeleteEvent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		logger := requestLogger(log, r).With(slog.String("event_id", id))

		if err := handler.DeleteEvent(r.Context(), id); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
