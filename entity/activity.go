// Package entity defines domain types shared across the application.

package entity

import "time"

// ActivityType names an auditable transition. Telegram alerts are keyed by it too.
type ActivityType string

const (
	ActivityCodeRedeemed    ActivityType = "auth.code.redeemed"
	ActivityCodeRejected    ActivityType = "auth.code.rejected"
	ActivityLoginSuccess    ActivityType = "auth.login.success"
	ActivityLoginFailure    ActivityType = "auth.login.failure"
	ActivityLogout          ActivityType = "auth.logout"
	ActivityPasswordChanged ActivityType = "admin.password.changed"
	ActivityRsvpSubmitted   ActivityType = "rsvp.submitted"
)

type Activity struct {
	Type        ActivityType      `json:"type" bson:"type"`
	SessionType SessionType       `json:"session_type,omitempty" bson:"session_type,omitempty"`
	GuestID     string            `json:"guest_id,omitempty" bson:"guest_id,omitempty"`
	AdminID     string            `json:"admin_id,omitempty" bson:"admin_id,omitempty"`
	Remote      string            `json:"remote,omitempty" bson:"remote,omitempty"`
	Details     map[string]string `json:"details,omitempty" bson:"details,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at" bson:"occurred_at"`
}
