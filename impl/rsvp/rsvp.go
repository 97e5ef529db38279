// Package rsvp validates guest responses and commits them as an atomic
// replace of whatever the guest answered before.
package rsvp

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"rsvpd/entity"
	"rsvpd/internal/database"
	"rsvpd/lib/apperr"
	"rsvpd/lib/clock"
	"rsvpd/lib/sl"
)

type Store interface {
	GuestByID(ctx context.Context, id string) (*entity.Guest, error)
	RsvpByGuest(ctx context.Context, guestID string) (*entity.Rsvp, error)
	Update(ctx context.Context, fn func(tx *database.Tx) error) error
}

type Journal interface {
	Record(ctx context.Context, activity *entity.Activity)
}

type Coordinator struct {
	store   Store
	journal Journal
	clock   clock.Clock
	log     *slog.Logger
}

func New(store Store, journal Journal, clk clock.Clock, log *slog.Logger) *Coordinator {
	return &Coordinator{
		store:   store,
		journal: journal,
		clock:   clk,
		log:     log.With(sl.Module("impl.rsvp")),
	}
}

func (c *Coordinator) guest(ctx context.Context, guestID string) (*entity.Guest, error) {
	guest, err := c.store.GuestByID(ctx, guestID)
	if err != nil {
		return nil, apperr.Database("lookup guest", err)
	}
	if guest == nil {
		// the session outlived its guest; treat like a missing session
		return nil, apperr.Unauthorized()
	}
	return guest, nil
}

// Check enforces the submission rules against the guest's quota. A meal
// preference is matched exactly as sent.
func Check(guest *entity.Guest, attendees []entity.AttendeeInput) error {
	if len(attendees) > guest.PartySize {
		return apperr.BadRequestf("Too many attendees: party size is %d", guest.PartySize)
	}
	primaries := 0
	for _, a := range attendees {
		if a.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		return apperr.BadRequest("Exactly one primary attendee is required")
	}
	for _, a := range attendees {
		if a.MealPreference != nil && !entity.IsMeal(*a.MealPreference) {
			return apperr.BadRequestf("Invalid meal preference: %s", *a.MealPreference)
		}
	}
	return nil
}

func blank(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// Submit replaces the guest's RSVP with the given attendees. Nothing is
// written unless every rule holds.
func (c *Coordinator) Submit(ctx context.Context, guestID string, req *entity.SubmitRsvp) (*entity.RsvpStatus, error) {
	guest, err := c.guest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	logger := c.log.With(slog.String("guest_id", guest.ID))

	if err = Check(guest, req.Attendees); err != nil {
		logger.With(sl.Err(err)).Debug("rsvp rejected")
		return nil, err
	}

	now := c.clock.Now()
	rsvp := &entity.Rsvp{
		ID:          uuid.NewString(),
		GuestID:     guest.ID,
		RespondedAt: now,
		Attendees:   make([]*entity.Attendee, 0, len(req.Attendees)),
	}
	attending := 0
	for _, in := range req.Attendees {
		rsvp.Attendees = append(rsvp.Attendees, &entity.Attendee{
			ID:                  uuid.NewString(),
			RsvpID:              rsvp.ID,
			Name:                in.Name,
			IsAttending:         in.IsAttending,
			MealPreference:      in.MealPreference,
			DietaryRestrictions: blank(in.DietaryRestrictions),
			IsPrimary:           in.IsPrimary,
		})
		if in.IsAttending {
			attending++
		}
	}

	err = c.store.Update(ctx, func(tx *database.Tx) error {
		return tx.ReplaceRsvp(ctx, rsvp, now)
	})
	if err != nil {
		return nil, apperr.Database("save rsvp", err)
	}

	logger.With(
		slog.Int("attendees", len(rsvp.Attendees)),
		slog.Int("attending", attending),
	).Info("rsvp submitted")
	c.journal.Record(ctx, &entity.Activity{
		Type:        entity.ActivityRsvpSubmitted,
		SessionType: entity.SessionGuest,
		GuestID:     guest.ID,
		Details: map[string]string{
			"guest_name":    guest.Name,
			"attending":     strconv.Itoa(attending),
			"not_attending": strconv.Itoa(len(rsvp.Attendees) - attending),
		},
	})

	return c.status(ctx, guest)
}

// Status reports the guest's current RSVP, attendees primary first then by name.
func (c *Coordinator) Status(ctx context.Context, guestID string) (*entity.RsvpStatus, error) {
	guest, err := c.guest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return c.status(ctx, guest)
}

func (c *Coordinator) status(ctx context.Context, guest *entity.Guest) (*entity.RsvpStatus, error) {
	rsvp, err := c.store.RsvpByGuest(ctx, guest.ID)
	if err != nil {
		return nil, apperr.Database("load rsvp", err)
	}
	return &entity.RsvpStatus{
		HasResponded: rsvp != nil,
		PartySize:    guest.PartySize,
		GuestName:    guest.Name,
		Rsvp:         rsvp,
	}, nil
}
