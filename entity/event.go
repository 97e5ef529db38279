package entity

import (
	"net/http"
	"time"

	"rsvpd/lib/validate"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Event struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	EventType       string  `json:"event_type"`
	EventDate       string  `json:"event_date"`
	EventTime       string  `json:"event_time"`
	LocationName    string  `json:"location_name"`
	LocationAddress string  `json:"location_address"`
	Description     *string `json:"description"`
	DisplayOrder    int     `json:"display_order"`
}

// StartsAt combines date and time; events carry no zone of their own.
func (e *Event) StartsAt() (time.Time, error) {
	return time.Parse(DateLayout+" "+TimeLayout, e.EventDate+" "+e.EventTime)
}

type EventRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=200"`
	EventType       string  `json:"event_type" validate:"required,min=1,max=50"`
	EventDate       string  `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime       string  `json:"event_time" validate:"required,datetime=15:04"`
	LocationName    string  `json:"location_name" validate:"required,min=1,max=200"`
	LocationAddress string  `json:"location_address" validate:"required,min=1,max=500"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	DisplayOrder    int     `json:"display_order" validate:"min=0"`
}

func (e *EventRequest) Bind(_ *http.Request) error {
	return validate.Struct(e)
}

func (e *EventRequest) Event(id string) *Event {
	return &Event{
		ID:              id,
		Name:            e.Name,
		EventType:       e.EventType,
		EventDate:       e.EventDate,
		EventTime:       e.EventTime,
		LocationName:    e.LocationName,
		LocationAddress: e.LocationAddress,
		Description:     e.Description,
		DisplayOrder:    e.DisplayOrder,
	}
}

type EventList struct {
	Events []*Event `json:"events"`
}
