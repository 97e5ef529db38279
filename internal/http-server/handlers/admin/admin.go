package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"rsvpd/entity"
	"rsvpd/internal/http-server/handlers/errors"
	"rsvpd/lib/api/cont"
	"rsvpd/lib/api/response"
	"rsvpd/lib/sl"
)

// Core is reached only behind an admin session guard.
type Core interface {
	Guests(ctx context.Context) (*entity.GuestList, error)
	CreateGuest(ctx context.Context, req *entity.GuestRequest) (*entity.CreatedGuest, error)
	UpdateGuest(ctx context.Context, id string, req *entity.GuestRequest) (*entity.Guest, error)
	DeleteGuest(ctx context.Context, id string) error
	RegenerateCode(ctx context.Context, id string) (*entity.GeneratedCode, error)
	IssueAdminCode(ctx context.Context) (*entity.GeneratedCode, error)
	Dashboard(ctx context.Context) (*entity.DashboardStats, error)
	Events(ctx context.Context) (*entity.EventList, error)
	CreateEvent(ctx context.Context, req *entity.EventRequest) (*entity.Event, error)
	UpdateEvent(ctx context.Context, id string, req *entity.EventRequest) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, session *entity.Session, req *entity.ChangePassword) error
}

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	session := cont.GetSession(r.Context())
	logger := log.With(
		sl.Module("http.handlers.admin"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if session != nil {
		logger = logger.With(slog.String("admin_id", session.AdminID))
	}
	return logger
}

func Guests(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		list, err := handler.Guests(r.Context())
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(list))
	}
}

func CreateGuest(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req entity.GuestRequest
		if err := errors.Bind(r, &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		guest, err := handler.CreateGuest(r.Context(), &req)
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(guest))
	}
}

func UpdateGuest(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		id := chi.URLParam(r, "id")

		var req entity.GuestRequest
		if err := errors.Bind(r, &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		guest, err := handler.UpdateGuest(r.Context(), id, &req)
		if err != nil {
			errors.Render(logger.With(slog.String("guest_id", id)), w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(guest))
	}
}

func DeleteGuest(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		id := chi.URLParam(r, "id")

		if err := handler.DeleteGuest(r.Context(), id); err != nil {
			errors.Render(logger.With(slog.String("guest_id", id)), w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func RegenerateCode(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)
		id := chi.URLParam(r, "id")

		code, err := handler.RegenerateCode(r.Context(), id)
		if err != nil {
			errors.Render(logger.With(slog.String("guest_id", id)), w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(code))
	}
}

// IssueAdminCode adds another shared admin code; existing ones stay valid.
func IssueAdminCode(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		code, err := handler.IssueAdminCode(r.Context())
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}
		logger.Info("admin code issued")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(code))
	}
}

func Dashboard(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		stats, err := handler.Dashboard(r.Context())
		if err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(stats))
	}
}

func ChangePassword(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req entity.ChangePassword
		if err := errors.Bind(r, &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		if err := handler.ChangePassword(r.Context(), cont.GetSession(r.Context()), &req); err != nil {
			errors.Render(logger, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
