package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type createForm struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,email"`
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, Validate(createForm{Name: "Coffee Lab", Email: "owner@example.com"}))
}

func TestValidate_ReportsFieldAndTag(t *testing.T) {
	fields := Validate(createForm{Name: "x", Email: "not-an-email"})

	assert.Equal(t, "min", fields["Name"])
	assert.Equal(t, "email", fields["Email"])
}
