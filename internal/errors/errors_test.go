package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("study construction failed")
	assert.Equal(t, "study construction failed", err.Error())
	assert.NotEmpty(t, err.StackTrace())
}

func TestErrorf(t *testing.T) {
	err := Errorf("unknown sampler: %q", "grid")
	assert.Equal(t, `unknown sampler: "grid"`, err.Error())
}

func TestErrorStringComposition(t *testing.T) {
	base := stderrors.New("disk full")
	err := Wrap(base, "writing result file").
		WithOperation("save").
		WithComponent("result")

	msg := err.Error()
	assert.Contains(t, msg, "writing result file")
	assert.Contains(t, msg, "operation=save")
	assert.Contains(t, msg, "component=result")
	assert.Contains(t, msg, "disk full")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestUnwrapChain(t *testing.T) {
	base := stderrors.New("root cause")
	wrapped := Wrap(base, "outer")

	assert.True(t, Is(wrapped, base))
	assert.Equal(t, base, Unwrap(wrapped))

	var target *Error
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "outer", target.Message)
}

func TestIsThroughFmtWrapping(t *testing.T) {
	inner := New("bad configuration")
	outer := fmt.Errorf("loading spec: %w", inner)

	var target *Error
	assert.True(t, As(outer, &target))
	assert.True(t, Is(outer, inner))
}

func TestRecoveredPassesThrough(t *testing.T) {
	assert.NoError(t, Recovered(func() error { return nil }))

	sentinel := stderrors.New("plain failure")
	assert.Equal(t, sentinel, Recovered(func() error { return sentinel }))
}

func TestRecoveredConvertsPanic(t *testing.T) {
	err := Recovered(func() error {
		panic("sampler index out of range")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recovered from panic")
	assert.Contains(t, err.Error(), "sampler index out of range")

	var target *Error
	require.True(t, As(err, &target))
	assert.NotEmpty(t, target.StackTrace())
}
