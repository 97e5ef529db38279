package errors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"rsvpd/lib/api/response"
	"rsvpd/lib/apperr"
	"rsvpd/lib/sl"
)

// Render writes err with the status of its kind. Server-side faults are
// logged with their cause; the client only sees a generic message.
func Render(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", slog.String("kind", apperr.KindOf(err).String()), sl.Err(err))
	default:
		logger.Debug("request rejected", slog.String("kind", apperr.KindOf(err).String()), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, response.Failure(err))
}

// Bind decodes the body into v; decode failures are BadRequest, rule
// violations come back as Validation.
func Bind(r *http.Request, v render.Binder) error {
	err := render.Bind(r, v)
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) == apperr.KindValidation {
		return err
	}
	return apperr.BadRequestf("Invalid request: %v", err)
}
