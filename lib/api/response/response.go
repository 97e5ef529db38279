package response

import (
	"rsvpd/lib/apperr"
	"rsvpd/lib/clock"
)

type Response struct {
	Data          interface{}         `json:"data,omitempty"`
	Success       bool                `json:"success" validate:"required"`
	StatusMessage string              `json:"status_message"`
	Errors        []apperr.FieldError `json:"errors,omitempty"`
	Timestamp     string              `json:"timestamp"`
}

func Ok(data interface{}) Response {
	return Response{
		Data:          data,
		Success:       true,
		StatusMessage: "Success",
		Timestamp:     clock.Now(),
	}
}

func Error(message string) Response {
	return Response{
		Success:       false,
		StatusMessage: message,
		Timestamp:     clock.Now(),
	}
}

// Failure renders err for the client: the public message and, for
// validation errors, every failing field.
func Failure(err error) Response {
	r := Error(apperr.PublicMessage(err))
	r.Errors = apperr.FieldsOf(err)
	return r
}
