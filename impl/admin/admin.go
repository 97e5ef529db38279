// Package admin implements the administrator surface: guests with their
// invite codes, events, the dashboard and the password change.
package admin

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"rsvpd/entity"
	"rsvpd/impl/invite"
	"rsvpd/internal/database"
	"rsvpd/lib/apperr"
	"rsvpd/lib/clock"
	"rsvpd/lib/sl"
)

type Store interface {
	ListGuests(ctx context.Context) ([]*entity.Guest, error)
	GuestByID(ctx context.Context, id string) (*entity.Guest, error)
	UpdateGuest(ctx context.Context, g *entity.Guest) (bool, error)
	DeleteGuest(ctx context.Context, id string) (bool, error)
	GuestCode(ctx context.Context, guestID string) (string, error)
	RsvpSummary(ctx context.Context, guestID string) (entity.RsvpSummary, error)
	DashboardStats(ctx context.Context) (*entity.DashboardStats, error)

	ListEvents(ctx context.Context) ([]*entity.Event, error)
	CreateEvent(ctx context.Context, e *entity.Event) error
	UpdateEvent(ctx context.Context, e *entity.Event) (bool, error)
	DeleteEvent(ctx context.Context, id string) (bool, error)

	AdminByID(ctx context.Context, id string) (*entity.Admin, error)
	UpdateAdminPassword(ctx context.Context, id, hash string) error

	Update(ctx context.Context, fn func(tx *database.Tx) error) error
}

type CodeIssuer interface {
	Issue(ctx context.Context, tx invite.CodeWriter, codeType entity.CodeType, guestID string) (string, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

type Journal interface {
	Record(ctx context.Context, activity *entity.Activity)
}

type Admin struct {
	store   Store
	codes   CodeIssuer
	hasher  Hasher
	journal Journal
	clock   clock.Clock
	log     *slog.Logger
}

func New(store Store, codes CodeIssuer, hasher Hasher, journal Journal, clk clock.Clock, log *slog.Logger) *Admin {
	return &Admin{
		store:   store,
		codes:   codes,
		hasher:  hasher,
		journal: journal,
		clock:   clk,
		log:     log.With(sl.Module("impl.admin")),
	}
}

func (a *Admin) Guests(ctx context.Context) (*entity.GuestList, error) {
	guests, err := a.store.ListGuests(ctx)
	if err != nil {
		return nil, apperr.Database("list guests", err)
	}
	list := &entity.GuestList{
		Guests: make([]*entity.GuestSummary, 0, len(guests)),
		Total:  len(guests),
	}
	for _, g := range guests {
		code, err := a.store.GuestCode(ctx, g.ID)
		if err != nil {
			return nil, apperr.Database("guest code", err)
		}
		summary, err := a.store.RsvpSummary(ctx, g.ID)
		if err != nil {
			return nil, apperr.Database("rsvp summary", err)
		}
		list.Guests = append(list.Guests, &entity.GuestSummary{
			Guest:      *g,
			InviteCode: code,
			Rsvp:       summary,
		})
	}
	return list, nil
}

// CreateGuest inserts the guest together with a fresh invite code.
func (a *Admin) CreateGuest(ctx context.Context, req *entity.GuestRequest) (*entity.CreatedGuest, error) {
	guest := &entity.Guest{
		ID:        uuid.NewString(),
		Name:      req.Name,
		PartySize: req.PartySize,
		CreatedAt: a.clock.Now(),
	}
	var code string
	err := a.store.Update(ctx, func(tx *database.Tx) error {
		if err := tx.InsertGuest(ctx, guest); err != nil {
			return err
		}
		var err error
		code, err = a.codes.Issue(ctx, tx, entity.CodeGuest, guest.ID)
		return err
	})
	if err != nil {
		return nil, apperr.Database("create guest", err)
	}
	a.log.With(
		slog.String("guest_id", guest.ID),
		slog.Int("party_size", guest.PartySize),
	).Info("guest created")
	return &entity.CreatedGuest{Guest: *guest, InviteCode: code}, nil
}

func (a *Admin) UpdateGuest(ctx context.Context, id string, req *entity.GuestRequest) (*entity.Guest, error) {
	guest := &entity.Guest{ID: id, Name: req.Name, PartySize: req.PartySize}
	ok, err := a.store.UpdateGuest(ctx, guest)
	if err != nil {
		return nil, apperr.Database("update guest", err)
	}
	if !ok {
		return nil, apperr.NotFound("Guest not found")
	}
	stored, err := a.store.GuestByID(ctx, id)
	if err != nil {
		return nil, apperr.Database("lookup guest", err)
	}
	if stored == nil {
		return nil, apperr.NotFound("Guest not found")
	}
	return stored, nil
}

// DeleteGuest removes the guest with its codes, sessions and RSVP.
func (a *Admin) DeleteGuest(ctx context.Context, id string) error {
	ok, err := a.store.DeleteGuest(ctx, id)
	if err != nil {
		return apperr.Database("delete guest", err)
	}
	if !ok {
		return apperr.NotFound("Guest not found")
	}
	a.log.With(slog.String("guest_id", id)).Info("guest deleted")
	return nil
}

// RegenerateCode swaps the guest's invite code for a new one. Sessions
// already opened with the old code stay valid.
func (a *Admin) RegenerateCode(ctx context.Context, id string) (*entity.GeneratedCode, error) {
	var code string
	err := a.store.Update(ctx, func(tx *database.Tx) error {
		exists, err := tx.GuestExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("Guest not found")
		}
		if err = tx.DeleteGuestCodes(ctx, id); err != nil {
			return err
		}
		code, err = a.codes.Issue(ctx, tx, entity.CodeGuest, id)
		return err
	})
	if err != nil {
		return nil, apperr.Database("regenerate code", err)
	}
	a.log.With(slog.String("guest_id", id)).Info("invite code regenerated")
	return &entity.GeneratedCode{InviteCode: code}, nil
}

// IssueAdminCode creates a new shared admin code.
func (a *Admin) IssueAdminCode(ctx context.Context) (*entity.GeneratedCode, error) {
	var code string
	err := a.store.Update(ctx, func(tx *database.Tx) error {
		var err error
		code, err = a.codes.Issue(ctx, tx, entity.CodeAdmin, "")
		return err
	})
	if err != nil {
		return nil, apperr.Database("issue admin code", err)
	}
	return &entity.GeneratedCode{InviteCode: code}, nil
}

func (a *Admin) Dashboard(ctx context.Context) (*entity.DashboardStats, error) {
	stats, err := a.store.DashboardStats(ctx)
	if err != nil {
		return nil, apperr.Database("dashboard", err)
	}
	return stats, nil
}

// ChangePassword requires the current password even though the caller is
// already signed in; a mismatch is BadRequest, not Unauthorized.
func (a *Admin) ChangePassword(ctx context.Context, adminID string, req *entity.ChangePassword) error {
	logger := a.log.With(slog.String("admin_id", adminID))

	admin, err := a.store.AdminByID(ctx, adminID)
	if err != nil {
		return apperr.Database("lookup admin", err)
	}
	if admin == nil {
		return apperr.Unauthorized()
	}
	if !a.hasher.Verify(req.CurrentPassword, admin.PasswordHash) {
		logger.Warn("current password mismatch")
		return apperr.BadRequest("Current password is incorrect")
	}
	hash, err := a.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	if err = a.store.UpdateAdminPassword(ctx, admin.ID, hash); err != nil {
		return apperr.Database("update password", err)
	}
	logger.Info("password changed")
	a.journal.Record(ctx, &entity.Activity{
		Type:        entity.ActivityPasswordChanged,
		SessionType: entity.SessionAdmin,
		AdminID:     admin.ID,
	})
	return nil
}
