package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpd/lib/apperr"
)

func TestParseCodeType(t *testing.T) {
	ct, err := ParseCodeType("guest")
	require.NoError(t, err)
	assert.Equal(t, CodeGuest, ct)

	ct, err = ParseCodeType("admin")
	require.NoError(t, err)
	assert.Equal(t, CodeAdmin, ct)

	_, err = ParseCodeType("Admin")
	assert.Error(t, err)
	_, err = ParseCodeType("")
	assert.Error(t, err)
}

func TestParseSessionType(t *testing.T) {
	for _, s := range []string{"guest", "admin_pending", "admin"} {
		st, err := ParseSessionType(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(st))
	}
	_, err := ParseSessionType("superuser")
	assert.Error(t, err)
}

func TestSessionConsistent(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{"guest", Session{SessionType: SessionGuest, GuestID: "g"}, true},
		{"guest without id", Session{SessionType: SessionGuest}, false},
		{"guest with admin", Session{SessionType: SessionGuest, GuestID: "g", AdminID: "a"}, false},
		{"pending", Session{SessionType: SessionAdminPending}, true},
		{"pending bound", Session{SessionType: SessionAdminPending, AdminID: "a"}, false},
		{"admin", Session{SessionType: SessionAdmin, AdminID: "a"}, true},
		{"unknown", Session{SessionType: "root", AdminID: "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.Consistent())
		})
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
	assert.True(t, s.Expired(now.Add(time.Hour)))
}

func TestIsMeal(t *testing.T) {
	for _, m := range Meals() {
		assert.True(t, IsMeal(string(m)))
	}
	assert.False(t, IsMeal("pork"))
	assert.False(t, IsMeal("Beef"))
	assert.False(t, IsMeal(""))
}

func TestSubmitRsvpBind(t *testing.T) {
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	diet := string(long)
	s := SubmitRsvp{Attendees: []AttendeeInput{
		{Name: "", IsPrimary: true},
		{Name: "Bob", DietaryRestrictions: &diet},
	}}
	err := s.Bind(nil)
	require.Error(t, err)
	fields := apperr.FieldsOf(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "attendees[0].name", fields[0].Field)
	assert.Equal(t, "attendees[1].dietary_restrictions", fields[1].Field)

	empty := SubmitRsvp{}
	assert.True(t, apperr.Is(empty.Bind(nil), apperr.KindValidation))
}

func TestSubmitRsvpTrimsNames(t *testing.T) {
	s := SubmitRsvp{Attendees: []AttendeeInput{{Name: "  Pat ", IsPrimary: true}}}
	require.NoError(t, s.Bind(nil))
	assert.Equal(t, "Pat", s.Attendees[0].Name)

	blank := SubmitRsvp{Attendees: []AttendeeInput{{Name: "   ", IsPrimary: true}}}
	err := blank.Bind(nil)
	require.Error(t, err)
	fields := apperr.FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "attendees[0].name", fields[0].Field)
}

func TestEventRequestBind(t *testing.T) {
	req := EventRequest{
		Name:            "Ceremony",
		EventType:       "ceremony",
		EventDate:       "2026-06-20",
		EventTime:       "16:30",
		LocationName:    "Chapel",
		LocationAddress: "1 Main St",
	}
	require.NoError(t, req.Bind(nil))

	ev := req.Event("id-1")
	at, err := ev.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, 16, at.Hour())

	req.EventDate = "20/06/2026"
	req.EventTime = "4pm"
	fields := apperr.FieldsOf(req.Bind(nil))
	assert.Len(t, fields, 2)
}

func TestGuestRequestTrims(t *testing.T) {
	req := GuestRequest{Name: "  The Smiths ", PartySize: 3}
	require.NoError(t, req.Bind(nil))
	assert.Equal(t, "The Smiths", req.Name)

	req = GuestRequest{Name: "   ", PartySize: 0}
	assert.Len(t, apperr.FieldsOf(req.Bind(nil)), 2)
}
