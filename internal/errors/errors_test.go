package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHikesErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *HikesError
		expected string
	}{
		{
			name:     "message only",
			err:      &HikesError{Message: "boom"},
			expected: "boom",
		},
		{
			name:     "code and path",
			err:      NewValidationError(ErrCodeInvalidPath, "invalid path").WithPath("../etc"),
			expected: "[ERR_INVALID_PATH] ../etc invalid path",
		},
		{
			name:     "with cause",
			err:      WrapIO(fmt.Errorf("no such file"), ErrCodeFileNotFound, "read page"),
			expected: "[ERR_FILE_NOT_FOUND] read page: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestHikesErrorIs(t *testing.T) {
	err := fmt.Errorf("loading: %w", ErrPageNotFound("walkthrough"))

	assert.True(t, errors.Is(err, &HikesError{Type: ErrorTypeValidation, Code: ErrCodePageNotFound}))
	assert.False(t, errors.Is(err, &HikesError{Type: ErrorTypeIO, Code: ErrCodePageNotFound}))
}

func TestConstructorsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(NewValidationError("X", "x")))
	assert.True(t, IsRecoverable(WrapRender(errors.New("x"), "x", "/intro")))
	assert.True(t, IsRecoverable(NewNetworkError("X", "x", nil)))
	assert.False(t, IsRecoverable(NewSecurityError("X", "x")))
	assert.False(t, IsRecoverable(NewConfigError("X", "x")))
	assert.False(t, IsRecoverable(WrapIO(errors.New("x"), ErrCodeIOFailed, "x")))
	assert.False(t, IsRecoverable(errors.New("plain")))
}

func TestTypeHelpers(t *testing.T) {
	assert.True(t, IsSecurityError(ErrPathTraversal("../x")))
	assert.True(t, IsSecurityError(ErrInvalidOrigin("http://evil")))
	assert.True(t, IsValidationError(ErrInvalidPath("x")))
	assert.False(t, IsValidationError(ErrPathTraversal("x")))
	assert.True(t, IsType(NewConfigError("X", "x"), ErrorTypeConfig))
}

func TestWithContext(t *testing.T) {
	err := NewValidationError(ErrCodeRenderFailed, "render").
		WithContext("slug", "intro").
		WithContext("bytes", 12)

	require.NotNil(t, err.Context)
	assert.Equal(t, "intro", err.Context["slug"])
	assert.Equal(t, 12, err.Context["bytes"])
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrorTypeIO, "X", "x"))
		assert.Nil(t, WrapRender(nil, "x", "p"))
		assert.Nil(t, WrapIO(nil, "X", "x"))
		assert.Nil(t, WrapConfig(nil, "X", "x"))
	})

	t.Run("plain error", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Wrap(cause, ErrorTypeRender, ErrCodeRenderFailed, "write page")

		assert.Equal(t, ErrorTypeRender, err.Type)
		assert.True(t, err.Recoverable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("keeps inner path and context", func(t *testing.T) {
		inner := ErrInvalidPath("pages/x.html").WithContext("reason", "bad")
		err := WrapConfig(inner, ErrCodeConfigInvalid, "content dir")

		assert.Equal(t, "pages/x.html", err.Path)
		assert.Equal(t, "bad", err.Context["reason"])
		assert.False(t, err.Recoverable)
	})

	t.Run("render path", func(t *testing.T) {
		err := WrapRender(errors.New("x"), "render page", "/intro")
		assert.Equal(t, "/intro", err.Path)
		assert.Equal(t, ErrCodeRenderFailed, err.Code)
	})

	t.Run("io is not recoverable", func(t *testing.T) {
		err := WrapIO(errors.New("x"), ErrCodeFileNotFound, "read")
		assert.False(t, err.Recoverable)
	})
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "", FormatError(nil))
	assert.Equal(t, "plain", FormatError(errors.New("plain")))
	assert.Equal(t, "[ERR_PAGE_NOT_FOUND] page not found: x", FormatError(ErrPageNotFound("x")))
}

func TestIOCode(t *testing.T) {
	assert.Equal(t, ErrCodeFileNotFound, IOCode(fmt.Errorf("open: %w", fs.ErrNotExist)))
	assert.Equal(t, ErrCodePermission, IOCode(&fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}))
	assert.Equal(t, ErrCodeIOFailed, IOCode(errors.New("disk full")))
}
