package entity

import (
	"fmt"
	"time"
)

type SessionType string

const (
	SessionGuest        SessionType = "guest"
	SessionAdminPending SessionType = "admin_pending"
	SessionAdmin        SessionType = "admin"
)

func ParseSessionType(s string) (SessionType, error) {
	switch SessionType(s) {
	case SessionGuest, SessionAdminPending, SessionAdmin:
		return SessionType(s), nil
	}
	return "", fmt.Errorf("unknown session type %q", s)
}

// Session is the server-side record behind the session cookie. Exactly one of
// GuestID/AdminID is set for guest/admin sessions; admin_pending has neither.
type Session struct {
	ID          string      `json:"id"`
	Token       string      `json:"-"`
	SessionType SessionType `json:"session_type"`
	GuestID     string      `json:"guest_id,omitempty"`
	AdminID     string      `json:"admin_id,omitempty"`
	ExpiresAt   time.Time   `json:"expires_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Consistent checks the identity binding against the session type.
func (s *Session) Consistent() bool {
	switch s.SessionType {
	case SessionGuest:
		return s.GuestID != "" && s.AdminID == ""
	case SessionAdmin:
		return s.AdminID != "" && s.GuestID == ""
	case SessionAdminPending:
		return s.GuestID == "" && s.AdminID == ""
	}
	return false
}

type SessionInfo struct {
	SessionType   SessionType `json:"session_type"`
	GuestID       string      `json:"guest_id,omitempty"`
	GuestName     string      `json:"guest_name,omitempty"`
	AdminID       string      `json:"admin_id,omitempty"`
	AdminUsername string      `json:"admin_username,omitempty"`
}
