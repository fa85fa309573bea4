package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := NotFound("design %q", "abc")
	assert.Equal(t, `NOT_FOUND: design "abc"`, err.Error())

	cause := errors.New("disk full")
	err = External("write design", cause)
	assert.Equal(t, "EXTERNAL_SERVICE: write design: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsHelpers_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load design: %w", Permission("not owner"))

	assert.True(t, IsPermission(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, CodePermission, CodeOf(wrapped))

	assert.True(t, IsMalformed(Malformed("bad json", nil)))
	assert.True(t, IsExternal(External("down", nil)))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}
