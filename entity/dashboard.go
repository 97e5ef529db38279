package entity

import "time"

type RecentRsvp struct {
	GuestName         string    `json:"guest_name"`
	RespondedAt       time.Time `json:"responded_at"`
	AttendingCount    int       `json:"attending_count"`
	NotAttendingCount int       `json:"not_attending_count"`
}

type DashboardStats struct {
	TotalGuests            int           `json:"total_guests"`
	TotalExpectedAttendees int           `json:"total_expected_attendees"`
	RsvpCount              int           `json:"rsvp_count"`
	PendingRsvps           int           `json:"pending_rsvps"`
	AttendingCount         int           `json:"attending_count"`
	NotAttendingCount      int           `json:"not_attending_count"`
	RecentRsvps            []*RecentRsvp `json:"recent_rsvps"`
}
