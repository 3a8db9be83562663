package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(IOFailure, "copy", "/tmp/x", nil))
}

func TestUserMessageFindsWrappedAppError(t *testing.T) {
	inner := Wrap(NotFound, "stat", "/missing", errors.New("no such file"))
	outer := fmt.Errorf("starting run: %w", inner)

	assert.Equal(t, "Path not found: /missing", UserMessage(outer))
	assert.Equal(t, NotFound, KindOf(outer))
	assert.True(t, IsConfiguration(outer))
}

func TestUserMessagePlainError(t *testing.T) {
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestIOFailureIsNotConfiguration(t *testing.T) {
	err := New(IOFailure, "copy", "/a", "disk full")
	assert.False(t, IsConfiguration(err))
	assert.Equal(t, "copy: /a: disk full", err.Error())
}
