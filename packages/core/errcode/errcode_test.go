package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSample = New("SAMPLE_FAILED", "sample failed")

func TestError_With(t *testing.T) {
	cause := errors.New("boom")
	err := errSample.With(cause, "filePath", "/tmp/a.json", "requestURL", "https://example.com")

	assert.Equal(t, Code("SAMPLE_FAILED"), err.Code)
	assert.Equal(t, "sample failed (filePath=/tmp/a.json requestURL=https://example.com): boom", err.Error())

	v, ok := err.Field("filePath")
	require.True(t, ok)
	assert.Equal(t, "/tmp/a.json", v)

	// sentinel is untouched
	assert.Nil(t, errSample.Fields)
	assert.Nil(t, errSample.Err)
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", errSample.With(cause))

	assert.True(t, errors.Is(err, errSample))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, New("OTHER", "other")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Code("SAMPLE_FAILED"), CodeOf(fmt.Errorf("ctx: %w", errSample.With(nil))))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestError_NoFields(t *testing.T) {
	assert.Equal(t, "sample failed", errSample.Error())
}
