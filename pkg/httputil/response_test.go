package httputil

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationMessageFlattensFieldErrors(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=8"`
	}

	err := validator.New().Struct(form{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	msg := validationMessage(err)
	assert.Contains(t, msg, "email must be a valid email address")
	assert.Contains(t, msg, "password must be at least 8 characters")
}

func TestValidationMessagePassthrough(t *testing.T) {
	err := errors.New("unexpected EOF")
	assert.Equal(t, "unexpected EOF", validationMessage(err))
}
