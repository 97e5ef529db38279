package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpd/entity"
	"rsvpd/impl/invite"
	"rsvpd/internal/database"
	"rsvpd/lib/clock"
	"rsvpd/lib/password"
)

func newSeeder(t *testing.T) (*seeder, *bytes.Buffer) {
	t.Helper()
	store, err := database.NewSQLite(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	clk := clock.Func(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) })
	out := &bytes.Buffer{}
	return &seeder{
		store:  store,
		codes:  invite.New(store, clk, slog.New(slog.NewTextHandler(io.Discard, nil))),
		hasher: password.New(password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}),
		clock:  clk,
		out:    out,
	}, out
}

func TestSeedAdmin(t *testing.T) {
	s, out := newSeeder(t)
	ctx := context.Background()

	require.NoError(t, s.run(ctx, []string{"admin", "planner", "ADMIN1"}))

	m := regexp.MustCompile(`password: (\S+)`).FindStringSubmatch(out.String())
	require.Len(t, m, 2)
	assert.Len(t, m[1], passwordLength)

	stored, err := s.store.AdminByUsername(ctx, "planner")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, s.hasher.Verify(m[1], stored.PasswordHash))

	code, err := s.store.InviteCodeByCode(ctx, "ADMIN1")
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.Equal(t, string(entity.CodeAdmin), code.CodeType)
	assert.Empty(t, code.GuestID)
}

func TestSeedAdminTwiceRotatesPassword(t *testing.T) {
	s, _ := newSeeder(t)
	ctx := context.Background()

	require.NoError(t, s.run(ctx, []string{"admin", "planner"}))
	first, err := s.store.AdminByUsername(ctx, "planner")
	require.NoError(t, err)

	require.NoError(t, s.run(ctx, []string{"admin", "planner"}))
	second, err := s.store.AdminByUsername(ctx, "planner")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
}

func TestSeedGuest(t *testing.T) {
	s, out := newSeeder(t)
	ctx := context.Background()

	require.NoError(t, s.run(ctx, []string{"guest", "The Smiths", "3"}))

	m := regexp.MustCompile(`code:\s+(\S+)`).FindStringSubmatch(out.String())
	require.Len(t, m, 2)
	assert.True(t, invite.Valid(m[1]))

	code, err := s.store.InviteCodeByCode(ctx, m[1])
	require.NoError(t, err)
	require.NotNil(t, code)
	guest, err := s.store.GuestByID(ctx, code.GuestID)
	require.NoError(t, err)
	require.NotNil(t, guest)
	assert.Equal(t, "The Smiths", guest.Name)
	assert.Equal(t, 3, guest.PartySize)
}

func TestSeedGuestDuplicateCodeRollsBack(t *testing.T) {
	s, _ := newSeeder(t)
	ctx := context.Background()

	require.NoError(t, s.run(ctx, []string{"guest", "First", "1", "SAME01"}))
	err := s.run(ctx, []string{"guest", "Second", "2", "SAME01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")

	guests, err := s.store.ListGuests(ctx)
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, "First", guests[0].Name)
}

func TestSeedUsage(t *testing.T) {
	s, _ := newSeeder(t)
	ctx := context.Background()

	for _, args := range [][]string{
		nil,
		{"admin"},
		{"guest", "Name"},
		{"guest", "Name", "many"},
		{"party"},
	} {
		assert.ErrorIs(t, s.run(ctx, args), errUsage, "%v", args)
	}
	assert.Error(t, s.run(ctx, []string{"guest", "Name", "0"}))
}
