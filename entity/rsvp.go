package entity

import (
	"net/http"
	"strings"
	"time"

	"rsvpd/lib/validate"
)

type Meal string

const (
	MealBeef       Meal = "beef"
	MealChicken    Meal = "chicken"
	MealFish       Meal = "fish"
	MealVegetarian Meal = "vegetarian"
	MealVegan      Meal = "vegan"
)

var meals = []Meal{MealBeef, MealChicken, MealFish, MealVegetarian, MealVegan}

func Meals() []Meal {
	result := make([]Meal, len(meals))
	copy(result, meals)
	return result
}

func IsMeal(s string) bool {
	for _, m := range meals {
		if string(m) == s {
			return true
		}
	}
	return false
}

// Rsvp is replaced wholesale on every submission; at most one per guest.
type Rsvp struct {
	ID          string      `json:"id"`
	GuestID     string      `json:"guest_id"`
	RespondedAt time.Time   `json:"responded_at"`
	Attendees   []*Attendee `json:"attendees"`
}

type Attendee struct {
	ID                  string  `json:"id"`
	RsvpID              string  `json:"-"`
	Name                string  `json:"name"`
	IsAttending         bool    `json:"is_attending"`
	MealPreference      *string `json:"meal_preference"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	IsPrimary           bool    `json:"is_primary"`
}

type AttendeeInput struct {
	Name                string  `json:"name" validate:"required,min=1,max=100"`
	IsAttending         bool    `json:"is_attending"`
	MealPreference      *string `json:"meal_preference"`
	DietaryRestrictions *string `json:"dietary_restrictions" validate:"omitempty,max=500"`
	IsPrimary           bool    `json:"is_primary"`
}

type SubmitRsvp struct {
	Attendees []AttendeeInput `json:"attendees" validate:"required,min=1,dive"`
}

func (s *SubmitRsvp) Bind(_ *http.Request) error {
	for i := range s.Attendees {
		s.Attendees[i].Name = strings.TrimSpace(s.Attendees[i].Name)
	}
	return validate.Struct(s)
}

type RsvpStatus struct {
	HasResponded bool   `json:"has_responded"`
	PartySize    int    `json:"party_size"`
	GuestName    string `json:"guest_name"`
	Rsvp         *Rsvp  `json:"rsvp"`
}
