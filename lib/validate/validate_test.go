package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvpd/lib/apperr"
)

type item struct {
	Name string `json:"name" validate:"required,max=5"`
}

type payload struct {
	Code  string `json:"code" validate:"required,min=1,max=10"`
	Items []item `json:"items" validate:"required,min=1,dive"`
}

func TestStructReportsEveryField(t *testing.T) {
	err := Struct(&payload{
		Code:  "",
		Items: []item{{Name: "ok"}, {Name: "too long"}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	fields := apperr.FieldsOf(err)
	require.Len(t, fields, 2)
	names := []string{fields[0].Field, fields[1].Field}
	assert.Contains(t, names, "code")
	assert.Contains(t, names, "items[1].name")
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(payload{Code: "ABC", Items: []item{{Name: "ann"}}}))
}

func TestStructRejectsNonStruct(t *testing.T) {
	assert.Error(t, Struct(nil))
	assert.Error(t, Struct("text"))
}

func TestMinItemsMessage(t *testing.T) {
	err := Struct(&payload{Code: "A", Items: []item{}})
	fields := apperr.FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "items", fields[0].Field)
	assert.Equal(t, "items must have at least 1 items", fields[0].Message)
}
