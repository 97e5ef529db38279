// Package auth drives the session state machine: an invite code opens a
// guest or admin_pending session, and an admin_pending session is upgraded
// to admin by a credential check.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rsvpd/entity"
	"rsvpd/impl/invite"
	"rsvpd/internal/database"
	"rsvpd/lib/apperr"
	"rsvpd/lib/clock"
	"rsvpd/lib/sl"
)

const tokenBytes = 32

type Store interface {
	SessionByToken(ctx context.Context, token string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
	GuestByID(ctx context.Context, id string) (*entity.Guest, error)
	AdminByID(ctx context.Context, id string) (*entity.Admin, error)
	AdminByUsername(ctx context.Context, username string) (*entity.Admin, error)
	Update(ctx context.Context, fn func(tx *database.Tx) error) error
}

type CodeResolver interface {
	Resolve(ctx context.Context, code string) (*invite.Grant, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

type Journal interface {
	Record(ctx context.Context, activity *entity.Activity)
}

type Auth struct {
	store    Store
	codes    CodeResolver
	hasher   Hasher
	journal  Journal
	clock    clock.Clock
	lifetime time.Duration
	log      *slog.Logger
	// verified against when the username is unknown so both failures cost the same
	dummyHash string
}

func New(store Store, codes CodeResolver, hasher Hasher, journal Journal, clk clock.Clock, lifetime time.Duration, log *slog.Logger) (*Auth, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &Auth{
		store:     store,
		codes:     codes,
		hasher:    hasher,
		journal:   journal,
		clock:     clk,
		lifetime:  lifetime,
		log:       log.With(sl.Module("impl.auth")),
		dummyHash: dummy,
	}, nil
}

func (a *Auth) Lifetime() time.Duration {
	return a.lifetime
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (a *Auth) newSession(sessionType entity.SessionType, guestID, adminID string) (*entity.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, apperr.Internal("generate token", err)
	}
	now := a.clock.Now()
	return &entity.Session{
		ID:          uuid.NewString(),
		Token:       token,
		SessionType: sessionType,
		GuestID:     guestID,
		AdminID:     adminID,
		ExpiresAt:   now.Add(a.lifetime),
		CreatedAt:   now,
	}, nil
}

// replace swaps the caller's current session, if any, for next in one transaction.
func (a *Auth) replace(ctx context.Context, current, next *entity.Session) error {
	err := a.store.Update(ctx, func(tx *database.Tx) error {
		if current != nil {
			if err := tx.DeleteSession(ctx, current.ID); err != nil {
				return err
			}
		}
		return tx.CreateSession(ctx, next)
	})
	return apperr.Database("save session", err)
}

// Redeem exchanges an invite code for a session. A session the caller
// already holds is discarded.
func (a *Auth) Redeem(ctx context.Context, current *entity.Session, code string) (*entity.Session, *entity.RedeemResult, error) {
	logger := a.log.With(sl.Secret("code", code))

	grant, err := a.codes.Resolve(ctx, code)
	if apperr.Is(err, apperr.KindNotFound) {
		logger.Debug("unknown code")
		a.journal.Record(ctx, &entity.Activity{Type: entity.ActivityCodeRejected})
		return nil, nil, apperr.BadRequest("Invalid code")
	}
	if err != nil {
		return nil, nil, err
	}

	var session *entity.Session
	result := &entity.RedeemResult{}
	switch grant.Type {
	case entity.CodeGuest:
		guest, err := a.store.GuestByID(ctx, grant.GuestID)
		if err != nil {
			return nil, nil, apperr.Database("lookup guest", err)
		}
		if guest == nil {
			logger.Error("code references missing guest", slog.String("guest_id", grant.GuestID))
			return nil, nil, apperr.Internal("dangling guest code", nil)
		}
		session, err = a.newSession(entity.SessionGuest, guest.ID, "")
		if err != nil {
			return nil, nil, err
		}
		result.GuestName = guest.Name
	case entity.CodeAdmin:
		session, err = a.newSession(entity.SessionAdminPending, "", "")
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, apperr.Internal(fmt.Sprintf("unhandled code type %q", grant.Type), nil)
	}

	if err = a.replace(ctx, current, session); err != nil {
		return nil, nil, err
	}
	result.SessionType = session.SessionType

	logger.With(sl.Session(string(session.SessionType))).Info("code redeemed")
	a.journal.Record(ctx, &entity.Activity{
		Type:        entity.ActivityCodeRedeemed,
		SessionType: session.SessionType,
		GuestID:     session.GuestID,
	})
	return session, result, nil
}

// Login upgrades an admin_pending session. On any failure the pending
// session is left as it was so the caller may retry.
func (a *Auth) Login(ctx context.Context, current *entity.Session, username, password string) (*entity.Session, *entity.AdminLoginResult, error) {
	if err := Require(current, entity.SessionAdminPending); err != nil {
		return nil, nil, err
	}
	logger := a.log.With(slog.String("username", username))

	admin, err := a.store.AdminByUsername(ctx, username)
	if err != nil {
		return nil, nil, apperr.Database("lookup admin", err)
	}
	encoded := a.dummyHash
	if admin != nil {
		encoded = admin.PasswordHash
	}
	if !a.hasher.Verify(password, encoded) || admin == nil {
		logger.Warn("admin login failed")
		a.journal.Record(ctx, &entity.Activity{
			Type:        entity.ActivityLoginFailure,
			SessionType: current.SessionType,
			Details:     map[string]string{"username": username},
		})
		return nil, nil, apperr.Unauthorized()
	}

	session, err := a.newSession(entity.SessionAdmin, "", admin.ID)
	if err != nil {
		return nil, nil, err
	}
	if err = a.replace(ctx, current, session); err != nil {
		return nil, nil, err
	}

	logger.Info("admin logged in")
	a.journal.Record(ctx, &entity.Activity{
		Type:        entity.ActivityLoginSuccess,
		SessionType: session.SessionType,
		AdminID:     admin.ID,
	})
	return session, &entity.AdminLoginResult{Username: admin.Username}, nil
}

// Logout deletes the session; a nil session is not an error.
func (a *Auth) Logout(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return nil
	}
	if err := a.store.DeleteSession(ctx, session.ID); err != nil {
		return apperr.Database("delete session", err)
	}
	a.journal.Record(ctx, &entity.Activity{
		Type:        entity.ActivityLogout,
		SessionType: session.SessionType,
		GuestID:     session.GuestID,
		AdminID:     session.AdminID,
	})
	return nil
}

// Resolve maps a bearer token to its live session. Unknown and expired
// tokens both yield nil; a stored record that breaks the session invariants
// is an integrity fault.
func (a *Auth) Resolve(ctx context.Context, token string) (*entity.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := a.store.SessionByToken(ctx, token)
	if err != nil {
		return nil, apperr.Database("lookup session", err)
	}
	if session == nil || session.Expired(a.clock.Now()) {
		return nil, nil
	}
	if _, err = entity.ParseSessionType(string(session.SessionType)); err != nil {
		a.log.Error("invalid stored session type", slog.String("session_id", session.ID), sl.Err(err))
		return nil, apperr.Internal("invalid session type", err)
	}
	if !session.Consistent() {
		a.log.Error("session identity mismatch",
			slog.String("session_id", session.ID),
			sl.Session(string(session.SessionType)),
		)
		return nil, apperr.Internal("inconsistent session", nil)
	}
	return session, nil
}

// Require fails Unauthorized unless session is live and of the given type.
func Require(session *entity.Session, sessionType entity.SessionType) error {
	if session == nil || session.SessionType != sessionType {
		return apperr.Unauthorized()
	}
	return nil
}

// Info describes the session and the identity it is bound to.
func (a *Auth) Info(ctx context.Context, session *entity.Session) (*entity.SessionInfo, error) {
	if session == nil {
		return nil, apperr.Unauthorized()
	}
	info := &entity.SessionInfo{SessionType: session.SessionType}
	switch session.SessionType {
	case entity.SessionGuest:
		guest, err := a.store.GuestByID(ctx, session.GuestID)
		if err != nil {
			return nil, apperr.Database("lookup guest", err)
		}
		if guest == nil {
			return nil, apperr.Unauthorized()
		}
		info.GuestID = guest.ID
		info.GuestName = guest.Name
	case entity.SessionAdmin:
		admin, err := a.store.AdminByID(ctx, session.AdminID)
		if err != nil {
			return nil, apperr.Database("lookup admin", err)
		}
		if admin == nil {
			return nil, apperr.Unauthorized()
		}
		info.AdminID = admin.ID
		info.AdminUsername = admin.Username
	}
	return info, nil
}
