package journal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpd/entity"
	"rsvpd/lib/api/cont"
	"rsvpd/lib/clock"
)

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
	t0      = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
)

type memorySink struct {
	mu      sync.Mutex
	records []*entity.Activity
	err     error
}

func (m *memorySink) Record(_ context.Context, a *entity.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, a)
	return m.err
}

func TestRecordFansOut(t *testing.T) {
	first := &memorySink{err: errors.New("mongo down")}
	second := &memorySink{}
	j := New(clock.Func(func() time.Time { return t0 }), discard, first, nil, second)

	ctx := cont.PutRemote(context.Background(), "10.0.0.1")
	j.Record(ctx, &entity.Activity{Type: entity.ActivityLogout})
	j.Record(ctx, &entity.Activity{Type: entity.ActivityRsvpSubmitted, Remote: "10.0.0.2"})
	j.Close()

	require.Len(t, first.records, 2)
	require.Len(t, second.records, 2)
	assert.Equal(t, t0, second.records[0].OccurredAt)
	assert.Equal(t, "10.0.0.1", second.records[0].Remote)
	assert.Equal(t, "10.0.0.2", second.records[1].Remote)
}

func TestWithoutSinks(t *testing.T) {
	j := New(clock.System(), discard)
	a := &entity.Activity{Type: entity.ActivityLogout}
	j.Record(context.Background(), a)
	assert.False(t, a.OccurredAt.IsZero())
	j.Close()
	j.Close()

	var none *Journal
	none.Record(context.Background(), a)
	none.Close()
}

func TestRecordAfterClose(t *testing.T) {
	sink := &memorySink{}
	j := New(clock.System(), discard, sink)
	j.Record(context.Background(), &entity.Activity{Type: entity.ActivityLogout})
	j.Close()

	assert.NotPanics(t, func() {
		j.Record(context.Background(), &entity.Activity{Type: entity.ActivityLoginFailure})
	})
	j.Close()
	require.Len(t, sink.records, 1)
	assert.Equal(t, entity.ActivityLogout, sink.records[0].Type)
}
