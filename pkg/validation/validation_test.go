package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Name     string   `json:"name" validate:"max=3"`
	Tags     []string `json:"-" validate:"omitempty,max=1"`
}

func TestMessages(t *testing.T) {
	v := validator.New()
	Register(v)

	err := v.Struct(sample{Email: "nope", Password: "123", Name: "toolong"})
	require.Error(t, err)

	got := Messages(err)
	assert.ElementsMatch(t, []FieldError{
		{Field: "email", Message: "email must be a valid email address"},
		{Field: "password", Message: "password must be at least 6 characters"},
		{Field: "name", Message: "name must be at most 3"},
	}, got)
}

func TestMessages_NotValidation(t *testing.T) {
	assert.Nil(t, Messages(errors.New("plain")))
	assert.Nil(t, Messages(nil))
}

func TestDefaultMessage(t *testing.T) {
	tests := []struct {
		tag, param, want string
	}{
		{"required", "", "amount is required"},
		{"gte", "0", "amount must be greater than or equal to 0"},
		{"oneof", "A B", "amount must be one of [A B]"},
		{"unknown", "", "amount is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultMessage("amount", tt.tag, tt.param))
		})
	}
}
