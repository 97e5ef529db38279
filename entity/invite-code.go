package entity

import (
	"fmt"
	"net/http"
	"time"

	"rsvpd/lib/validate"
)

// CodeType is stored as text; anything other than these values is an
// integrity fault.
type CodeType string

const (
	CodeGuest CodeType = "guest"
	CodeAdmin CodeType = "admin"
)

func ParseCodeType(s string) (CodeType, error) {
	switch CodeType(s) {
	case CodeGuest, CodeAdmin:
		return CodeType(s), nil
	}
	return "", fmt.Errorf("unknown code type %q", s)
}

// InviteCode grants either a guest identity (GuestID set) or the right to
// attempt an admin login (GuestID empty).
type InviteCode struct {
	ID        string    `json:"id" bson:"id"`
	Code      string    `json:"code" bson:"code"`
	CodeType  string    `json:"code_type" bson:"code_type"`
	GuestID   string    `json:"guest_id,omitempty" bson:"guest_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (c *InviteCode) Type() (CodeType, error) {
	return ParseCodeType(c.CodeType)
}

type RedeemCode struct {
	Code string `json:"code" validate:"required,min=1,max=50"`
}

func (r *RedeemCode) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type RedeemResult struct {
	SessionType SessionType `json:"session_type"`
	GuestName   string      `json:"guest_name,omitempty"`
}

type GeneratedCode struct {
	InviteCode string `json:"invite_code"`
}
