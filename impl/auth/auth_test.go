package auth

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpd/entity"
	"rsvpd/impl/invite"
	"rsvpd/internal/database"
	"rsvpd/lib/apperr"
	"rsvpd/lib/clock"
	"rsvpd/lib/password"
)

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
	cheap   = password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	week    = 7 * 24 * time.Hour
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu    sync.Mutex
	types []entity.ActivityType
}

func (r *recorder) Record(_ context.Context, a *entity.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, a.Type)
}

type fixture struct {
	auth    *Auth
	store   *database.Store
	clock   *testClock
	journal *recorder
	guest   *entity.Guest
}

const (
	guestCode = "GST234"
	adminCode = "ADM234"
	adminUser = "planner"
	adminPass = "correct horse"
)

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := database.NewSQLite(filepath.Join(t.TempDir(), "rsvp.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	clk := &testClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	hasher := password.New(cheap)
	hash, err := hasher.Hash(adminPass)
	require.NoError(t, err)

	guest := &entity.Guest{ID: uuid.NewString(), Name: "The Smiths", PartySize: 2, CreatedAt: clk.Now()}
	require.NoError(t, store.Update(ctx, func(tx *database.Tx) error {
		if err := tx.InsertGuest(ctx, guest); err != nil {
			return err
		}
		if err := tx.InsertCode(ctx, &entity.InviteCode{ID: uuid.NewString(), Code: guestCode,
			CodeType: string(entity.CodeGuest), GuestID: guest.ID, CreatedAt: clk.Now()}); err != nil {
			return err
		}
		if err := tx.InsertCode(ctx, &entity.InviteCode{ID: uuid.NewString(), Code: adminCode,
			CodeType: string(entity.CodeAdmin), CreatedAt: clk.Now()}); err != nil {
			return err
		}
		_, err := tx.UpsertAdmin(ctx, &entity.Admin{ID: uuid.NewString(), Username: adminUser,
			PasswordHash: hash, CreatedAt: clk.Now()})
		return err
	}))

	rec := &recorder{}
	registry := invite.New(store, clk, discard)
	a, err := New(store, registry, hasher, rec, clk, week, discard)
	require.NoError(t, err)
	return &fixture{auth: a, store: store, clock: clk, journal: rec, guest: guest}
}

func TestRedeemGuestCode(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	session, result, err := f.auth.Redeem(ctx, nil, guestCode)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionGuest, session.SessionType)
	assert.Equal(t, f.guest.ID, session.GuestID)
	assert.Empty(t, session.AdminID)
	assert.Equal(t, "The Smiths", result.GuestName)
	assert.Len(t, session.Token, 64)
	assert.Equal(t, f.clock.Now().Add(week), session.ExpiresAt)

	resolved, err := f.auth.Resolve(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, session.ID, resolved.ID)
	assert.NoError(t, Require(resolved, entity.SessionGuest))
	assert.True(t, apperr.Is(Require(resolved, entity.SessionAdmin), apperr.KindUnauthorized))

	info, err := f.auth.Info(ctx, resolved)
	require.NoError(t, err)
	assert.Equal(t, "The Smiths", info.GuestName)
	assert.Contains(t, f.journal.types, entity.ActivityCodeRedeemed)
}

func TestRedeemAdminCode(t *testing.T) {
	f := setup(t)
	session, result, err := f.auth.Redeem(context.Background(), nil, adminCode)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionAdminPending, session.SessionType)
	assert.Empty(t, session.GuestID)
	assert.Empty(t, session.AdminID)
	assert.Empty(t, result.GuestName)
}

func TestRedeemUnknownCode(t *testing.T) {
	f := setup(t)
	for _, code := range []string{"NOPE22", "gst234", ""} {
		_, _, err := f.auth.Redeem(context.Background(), nil, code)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindBadRequest), code)
		assert.Equal(t, "Invalid code", apperr.PublicMessage(err))
	}
	assert.Contains(t, f.journal.types, entity.ActivityCodeRejected)
}

func TestRedeemReplacesCurrentSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	first, _, err := f.auth.Redeem(ctx, nil, adminCode)
	require.NoError(t, err)
	second, _, err := f.auth.Redeem(ctx, first, guestCode)
	require.NoError(t, err)

	gone, err := f.auth.Resolve(ctx, first.Token)
	require.NoError(t, err)
	assert.Nil(t, gone)
	live, err := f.auth.Resolve(ctx, second.Token)
	require.NoError(t, err)
	assert.NotNil(t, live)
}

func TestRedeemDanglingGuest(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	// a code whose guest row vanished without the cascade
	a, err := New(danglingStore{f.store}, invite.New(f.store, f.clock, discard), password.New(cheap), f.journal, f.clock, week, discard)
	require.NoError(t, err)
	_, _, err = a.Redeem(ctx, nil, guestCode)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

type danglingStore struct {
	*database.Store
}

func (danglingStore) GuestByID(context.Context, string) (*entity.Guest, error) {
	return nil, nil
}

func TestLoginRequiresPendingSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, _, err := f.auth.Login(ctx, nil, adminUser, adminPass)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	guest, _, err := f.auth.Redeem(ctx, nil, guestCode)
	require.NoError(t, err)
	_, _, err = f.auth.Login(ctx, guest, adminUser, adminPass)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	pending, _, err := f.auth.Redeem(ctx, nil, adminCode)
	require.NoError(t, err)
	admin, _, err := f.auth.Login(ctx, pending, adminUser, adminPass)
	require.NoError(t, err)
	_, _, err = f.auth.Login(ctx, admin, adminUser, adminPass)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestLoginFailureKeepsPendingSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	pending, _, err := f.auth.Redeem(ctx, nil, adminCode)
	require.NoError(t, err)

	for _, tc := range []struct{ user, pass string }{
		{adminUser, "wrong"},
		{"stranger", adminPass},
	} {
		_, _, err = f.auth.Login(ctx, pending, tc.user, tc.pass)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		assert.Equal(t, "Unauthorized", apperr.PublicMessage(err))

		still, err := f.auth.Resolve(ctx, pending.Token)
		require.NoError(t, err)
		require.NotNil(t, still)
		assert.Equal(t, entity.SessionAdminPending, still.SessionType)
	}

	admin, result, err := f.auth.Login(ctx, pending, adminUser, adminPass)
	require.NoError(t, err)
	assert.Equal(t, adminUser, result.Username)
	assert.Equal(t, entity.SessionAdmin, admin.SessionType)
	assert.NotEmpty(t, admin.AdminID)
	assert.NotEqual(t, pending.Token, admin.Token)

	old, err := f.auth.Resolve(ctx, pending.Token)
	require.NoError(t, err)
	assert.Nil(t, old)

	info, err := f.auth.Info(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionAdmin, info.SessionType)
	assert.Equal(t, adminUser, info.AdminUsername)
	assert.Contains(t, f.journal.types, entity.ActivityLoginFailure)
	assert.Contains(t, f.journal.types, entity.ActivityLoginSuccess)
}

func TestLogout(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	session, _, err := f.auth.Redeem(ctx, nil, guestCode)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, session))
	require.NoError(t, f.auth.Logout(ctx, session))
	require.NoError(t, f.auth.Logout(ctx, nil))

	resolved, err := f.auth.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, resolved)
	assert.True(t, apperr.Is(Require(resolved, entity.SessionGuest), apperr.KindUnauthorized))
}

func TestExpiredSessionIsAbsent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	session, _, err := f.auth.Redeem(ctx, nil, guestCode)
	require.NoError(t, err)

	f.clock.Advance(week - time.Second)
	live, err := f.auth.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.NotNil(t, live)

	f.clock.Advance(time.Second)
	expired, err := f.auth.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, expired)

	none, err := f.auth.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestResolveRejectsCorruptSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := f.clock.Now()

	require.NoError(t, f.store.CreateSession(ctx, &entity.Session{ID: uuid.NewString(), Token: "weird",
		SessionType: entity.SessionType("superuser"), ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	_, err := f.auth.Resolve(ctx, "weird")
	assert.True(t, apperr.Is(err, apperr.KindInternal))

	require.NoError(t, f.store.CreateSession(ctx, &entity.Session{ID: uuid.NewString(), Token: "unbound",
		SessionType: entity.SessionGuest, ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	_, err = f.auth.Resolve(ctx, "unbound")
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestSessionsDieWithGuest(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	session, _, err := f.auth.Redeem(ctx, nil, guestCode)
	require.NoError(t, err)

	_, err = f.store.DeleteGuest(ctx, f.guest.ID)
	require.NoError(t, err)
	resolved, err := f.auth.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

var _ clock.Clock = (*testClock)(nil)
