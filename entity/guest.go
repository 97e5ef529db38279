package entity

import (
	"net/http"
	"strings"
	"time"

	"rsvpd/lib/validate"
)

// Guest is one invited party. PartySize caps the attendees a single RSVP may list.
type Guest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PartySize int       `json:"party_size"`
	CreatedAt time.Time `json:"created_at"`
}

type GuestRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	PartySize int    `json:"party_size" validate:"required,min=1,max=20"`
}

func (g *GuestRequest) Bind(_ *http.Request) error {
	g.Name = strings.TrimSpace(g.Name)
	return validate.Struct(g)
}

type CreatedGuest struct {
	Guest
	InviteCode string `json:"invite_code"`
}

type RsvpSummary struct {
	HasResponded      bool       `json:"has_responded"`
	RespondedAt       *time.Time `json:"responded_at"`
	AttendingCount    int        `json:"attending_count"`
	NotAttendingCount int        `json:"not_attending_count"`
}

type GuestSummary struct {
	Guest
	InviteCode string      `json:"invite_code,omitempty"`
	Rsvp       RsvpSummary `json:"rsvp"`
}

type GuestList struct {
	Guests []*GuestSummary `json:"guests"`
	Total  int             `json:"total"`
}
