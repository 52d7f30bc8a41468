package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeForIs(t *testing.T) {
	err := Clone(ErrNotFound, "course not found")
	wrapped := fmt.Errorf("load: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, "course not found", err.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestValidationErrorListsFields(t *testing.T) {
	err := Validation("invalid course", map[string]string{"name": "name is required", "fees": "fees must be greater than 0"})
	assert.Equal(t, "invalid course (fees: fees must be greater than 0; name: name is required)", err.Error())
	assert.True(t, HasCode(err, ErrValidation.Code))
}

func TestFromStatus(t *testing.T) {
	cases := map[int]string{
		http.StatusUnauthorized:        ErrUnauthorized.Code,
		http.StatusForbidden:           ErrUnauthorized.Code,
		http.StatusNotFound:            ErrNotFound.Code,
		http.StatusConflict:            ErrConflict.Code,
		http.StatusUnprocessableEntity: ErrValidation.Code,
		http.StatusTooManyRequests:     ErrTooManyRequests.Code,
		http.StatusBadGateway:          ErrInternal.Code,
	}
	for status, code := range cases {
		err := FromStatus(status, "boom")
		assert.Equal(t, code, err.Code, "status %d", status)
		assert.Equal(t, status, err.Status)
	}
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	plain := errors.New("disk full")
	err := FromError(plain)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.ErrorIs(t, err, plain)
	assert.Nil(t, FromError(nil))
}
