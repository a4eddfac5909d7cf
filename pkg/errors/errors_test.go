// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "profile_not_found",
			code:    errors.ErrProfileNotFound,
			message: "no such profile",
			wantStr: "[PROFILE_NOT_FOUND] no such profile",
		},
		{
			name:    "inconsistent_state",
			code:    errors.ErrInconsistentState,
			message: "backup already exists",
			wantStr: "[INCONSISTENT_STATE] backup already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details, "details should be initialized")
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrNameConflict, "profile name %q already in use", "Raid")
	assert.Equal(t, `profile name "Raid" already in use`, err.Message)
	assert.Equal(t, errors.ErrNameConflict, err.Code)
}

func TestWrap(t *testing.T) {
	t.Run("nil_error_stays_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "ignored"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "ignored %d", 1))
	})

	t.Run("wrapped_error_is_reachable", func(t *testing.T) {
		base := stderrors.New("permission denied")
		err := errors.Wrapf(base, errors.ErrLinkOperationFailed, "failed to create link at %s", "/game/cfg")

		assert.Equal(t, "[LINK_OPERATION_FAILED] failed to create link at /game/cfg: permission denied", err.Error())
		assert.True(t, stderrors.Is(err, base))
		assert.Equal(t, base, stderrors.Unwrap(err))
	})
}

func TestIs(t *testing.T) {
	err := errors.New(errors.ErrProfileNotFound, "first")
	same := errors.New(errors.ErrProfileNotFound, "second")
	other := errors.New(errors.ErrNameConflict, "third")

	assert.True(t, stderrors.Is(err, same), "errors with the same code should match")
	assert.False(t, stderrors.Is(err, other), "errors with different codes should not match")
	assert.False(t, stderrors.Is(err, stderrors.New("plain")))
}

func TestDetails(t *testing.T) {
	err := errors.New(errors.ErrInvalidGamePath, "not an installation").
		WithDetail("path", "/games/apb").
		WithDetails(map[string]interface{}{"executable": "Binaries/APB.exe"})

	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "/games/apb", details["path"])
	assert.Equal(t, "Binaries/APB.exe", details["executable"])

	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestErrorCodeHelpers(t *testing.T) {
	inner := errors.New(errors.ErrCannotDeleteActiveProfile, "profile is active")
	outer := fmt.Errorf("delete failed: %w", inner)

	assert.True(t, errors.IsErrorCode(outer, errors.ErrCannotDeleteActiveProfile))
	assert.False(t, errors.IsErrorCode(outer, errors.ErrProfileNotFound))
	assert.Equal(t, errors.ErrCannotDeleteActiveProfile, errors.GetErrorCode(outer))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.False(t, errors.IsErrorCode(nil, errors.ErrInternal))
}
