package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError_WrapsAndUnwraps(t *testing.T) {
	inner := fmt.Errorf("classification failed for https://x/y.jpg: %w", ErrClassificationFailed)
	err := NewUserError("could not analyze the photo", inner)

	assert.Equal(t, "could not analyze the photo: "+inner.Error(), err.Error())
	assert.ErrorIs(t, err, ErrClassificationFailed, "sentinel must stay reachable through the wrapper")

	var userErr *UserError
	assert.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not analyze the photo", userErr.UserMessage)
}

func TestUserError_WithoutCause(t *testing.T) {
	err := &UserError{UserMessage: "nothing to confirm"}

	assert.Equal(t, "nothing to confirm", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
