package rsvp

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpd/entity"
	"rsvpd/internal/database"
	"rsvpd/lib/apperr"
	"rsvpd/lib/clock"
)

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
	t0      = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
)

type nopJournal struct{ last *entity.Activity }

func (n *nopJournal) Record(_ context.Context, a *entity.Activity) { n.last = a }

func str(s string) *string { return &s }

func setup(t *testing.T, partySize int) (*Coordinator, *nopJournal, *entity.Guest) {
	t.Helper()
	store, err := database.NewSQLite(filepath.Join(t.TempDir(), "rsvp.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	guest := &entity.Guest{ID: uuid.NewString(), Name: "The Smiths", PartySize: partySize, CreatedAt: t0}
	require.NoError(t, store.Update(context.Background(), func(tx *database.Tx) error {
		return tx.InsertGuest(context.Background(), guest)
	}))
	j := &nopJournal{}
	return New(store, j, clock.Func(func() time.Time { return t0 }), discard), j, guest
}

func TestCheck(t *testing.T) {
	guest := &entity.Guest{PartySize: 2}
	tests := []struct {
		name      string
		attendees []entity.AttendeeInput
		message   string
	}{
		{
			name: "over quota",
			attendees: []entity.AttendeeInput{
				{Name: "A", IsPrimary: true}, {Name: "B"}, {Name: "C"},
			},
			message: "Too many attendees: party size is 2",
		},
		{
			name:      "no primary",
			attendees: []entity.AttendeeInput{{Name: "A"}, {Name: "B"}},
			message:   "Exactly one primary attendee is required",
		},
		{
			name:      "two primaries",
			attendees: []entity.AttendeeInput{{Name: "A", IsPrimary: true}, {Name: "B", IsPrimary: true}},
			message:   "Exactly one primary attendee is required",
		},
		{
			name:      "unknown meal",
			attendees: []entity.AttendeeInput{{Name: "A", IsPrimary: true, MealPreference: str("lobster")}},
			message:   "Invalid meal preference: lobster",
		},
		{
			name:      "meal is case-sensitive",
			attendees: []entity.AttendeeInput{{Name: "A", IsPrimary: true, MealPreference: str("Fish")}},
			message:   "Invalid meal preference: Fish",
		},
		{
			name:      "empty meal",
			attendees: []entity.AttendeeInput{{Name: "A", IsPrimary: true, MealPreference: str("")}},
			message:   "Invalid meal preference: ",
		},
		{
			name:      "blank meal",
			attendees: []entity.AttendeeInput{{Name: "A", IsPrimary: true, MealPreference: str("   ")}},
			message:   "Invalid meal preference:    ",
		},
		{
			name:      "padded meal",
			attendees: []entity.AttendeeInput{{Name: "A", IsPrimary: true, MealPreference: str(" chicken ")}},
			message:   "Invalid meal preference:  chicken ",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(guest, tc.attendees)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindBadRequest))
			assert.Equal(t, tc.message, apperr.PublicMessage(err))
		})
	}

	assert.NoError(t, Check(guest, []entity.AttendeeInput{{Name: "A", IsPrimary: true}}))
	assert.NoError(t, Check(guest, []entity.AttendeeInput{
		{Name: "A", IsPrimary: true, MealPreference: str("vegan")},
		{Name: "B"},
	}))
}

func TestSubmitAndRead(t *testing.T) {
	c, j, guest := setup(t, 2)
	ctx := context.Background()

	status, err := c.Status(ctx, guest.ID)
	require.NoError(t, err)
	assert.False(t, status.HasResponded)
	assert.Nil(t, status.Rsvp)
	assert.Equal(t, 2, status.PartySize)

	status, err = c.Submit(ctx, guest.ID, &entity.SubmitRsvp{Attendees: []entity.AttendeeInput{
		{Name: "Bob", IsAttending: true, MealPreference: str("vegetarian")},
		{Name: "Zoe", IsAttending: true, IsPrimary: true, MealPreference: str("chicken"), DietaryRestrictions: str("  ")},
	}})
	require.NoError(t, err)
	assert.True(t, status.HasResponded)
	assert.Equal(t, "The Smiths", status.GuestName)
	require.Len(t, status.Rsvp.Attendees, 2)
	assert.Equal(t, "Zoe", status.Rsvp.Attendees[0].Name)
	assert.True(t, status.Rsvp.Attendees[0].IsPrimary)
	assert.Equal(t, "chicken", *status.Rsvp.Attendees[0].MealPreference)
	assert.Nil(t, status.Rsvp.Attendees[0].DietaryRestrictions)
	assert.Equal(t, "Bob", status.Rsvp.Attendees[1].Name)
	assert.Equal(t, "vegetarian", *status.Rsvp.Attendees[1].MealPreference)
	assert.Equal(t, t0, status.Rsvp.RespondedAt)

	require.NotNil(t, j.last)
	assert.Equal(t, entity.ActivityRsvpSubmitted, j.last.Type)
	assert.Equal(t, "2", j.last.Details["attending"])
}

func TestResubmitReplaces(t *testing.T) {
	c, _, guest := setup(t, 3)
	ctx := context.Background()

	_, err := c.Submit(ctx, guest.ID, &entity.SubmitRsvp{Attendees: []entity.AttendeeInput{
		{Name: "Ann", IsAttending: true, IsPrimary: true},
		{Name: "Bob", IsAttending: true},
		{Name: "Cat", IsAttending: true},
	}})
	require.NoError(t, err)

	status, err := c.Submit(ctx, guest.ID, &entity.SubmitRsvp{Attendees: []entity.AttendeeInput{
		{Name: "Dan", IsAttending: false, IsPrimary: true},
	}})
	require.NoError(t, err)
	require.Len(t, status.Rsvp.Attendees, 1)
	assert.Equal(t, "Dan", status.Rsvp.Attendees[0].Name)

	read, err := c.Status(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, read.Rsvp.Attendees, 1)
	assert.Equal(t, "Dan", read.Rsvp.Attendees[0].Name)
}

func TestRejectedSubmitKeepsPreviousAnswer(t *testing.T) {
	c, _, guest := setup(t, 1)
	ctx := context.Background()

	first, err := c.Submit(ctx, guest.ID, &entity.SubmitRsvp{Attendees: []entity.AttendeeInput{
		{Name: "Ann", IsAttending: true, IsPrimary: true, MealPreference: str("fish")},
	}})
	require.NoError(t, err)

	bad := [][]entity.AttendeeInput{
		{{Name: "Ann", IsPrimary: true}, {Name: "Bob"}},
		{{Name: "Ann"}},
		{{Name: "Ann", IsPrimary: true, MealPreference: str("pizza")}},
		{{Name: "Ann", IsPrimary: true, MealPreference: str(" fish ")}},
		{{Name: "Ann", IsPrimary: true, MealPreference: str("")}},
	}
	for _, attendees := range bad {
		_, err = c.Submit(ctx, guest.ID, &entity.SubmitRsvp{Attendees: attendees})
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	}

	read, err := c.Status(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Rsvp.ID, read.Rsvp.ID)
	require.Len(t, read.Rsvp.Attendees, 1)
	assert.Equal(t, "fish", *read.Rsvp.Attendees[0].MealPreference)
}

func TestUnknownGuest(t *testing.T) {
	c, _, _ := setup(t, 1)
	_, err := c.Status(context.Background(), uuid.NewString())
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
