package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInternal, ErrValidation, ErrDuplicateAccount,
		ErrAuthentication, ErrUnauthorized, ErrUnknownRecipient,
		ErrUnknownOperation, ErrTransport,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("register bob: %w", ErrDuplicateAccount)
	assert.ErrorIs(t, err, ErrDuplicateAccount)
	assert.Equal(t, "register bob: username already exists", err.Error())
}
