package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForbiddenPrefix(t *testing.T) {
	err := Forbidden("cannot edit users of another company")
	assert.Equal(t, http.StatusForbidden, err.Code)
	assert.Equal(t, "403 Forbidden: cannot edit users of another company", err.Error())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("loading user: %w", NotFound("User not found"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal Server Error", err.Error())
}
