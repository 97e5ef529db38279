package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"rsvpd/entity"
	"rsvpd/impl/auth"
	"rsvpd/internal/http-server/cookie"
	"rsvpd/lib/api/cont"
	"rsvpd/lib/api/response"
	"rsvpd/lib/apperr"
	"rsvpd/lib/sl"
)

type Resolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.Session, error)
}

// New logs every request and attaches the caller's live session, if any,
// to the request context. A missing or expired cookie is not an error here;
// Require decides which routes need one. A session that fails its integrity
// checks is treated as absent and its cookie cleared.
func New(log *slog.Logger, resolver Resolver, jar cookie.Jar) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.session")
	log.With(mod).Info("session middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			defer func() {
				logger.With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming request")
			}()

			ctx := cont.PutRemote(r.Context(), r.RemoteAddr)

			token := jar.Token(r)
			if token != "" {
				session, err := resolver.ResolveSession(ctx, token)
				switch {
				case apperr.Is(err, apperr.KindInternal):
					// a corrupt record is dropped so the client can sign in again
					logger.With(sl.Secret("token", token), sl.Err(err)).Warn("discarding unusable session")
					jar.Clear(ww)
					session = nil
				case err != nil:
					logger = logger.With(sl.Secret("token", token), sl.Err(err))
					render.Status(r, apperr.Status(err))
					render.JSON(ww, r, response.Failure(err))
					return
				}
				if session != nil {
					logger = logger.With(sl.Session(string(session.SessionType)))
					ctx = cont.PutSession(ctx, session)
				}
			}

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

// Require rejects requests whose session is absent or of another type.
func Require(sessionType entity.SessionType) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Require(cont.GetSession(r.Context()), sessionType); err != nil {
				render.Status(r, apperr.Status(err))
				render.JSON(w, r, response.Failure(err))
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
