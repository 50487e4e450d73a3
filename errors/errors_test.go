package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/authcorp/proptest/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{"invalid configuration", errors.InvalidConfiguration("min %d > max %d", 5, 1), errors.ErrCodeInvalidConfiguration},
		{"cannot generate", errors.CannotGenerate("no values"), errors.ErrCodeCannotGenerate},
		{"filter misses", errors.TooManyFilterMisses(10000), errors.ErrCodeTooManyFilterMisses},
		{"store failure", errors.StoreFailure("save", stderrors.New("boom")), errors.ErrCodeStoreFailure},
		{"plain error", stderrors.New("unknown"), errors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.GetCode(tt.err))
			assert.Equal(t, tt.expected != errors.ErrCodeInternal, errors.IsCode(tt.err, tt.expected))
		})
	}
}

func TestWrapPreservesCode(t *testing.T) {
	base := errors.InvalidConfiguration("scale must not be negative")
	wrapped := errors.Wrapf(base, "building %s", "decimals")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeInvalidConfiguration, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Contains(t, wrapped.Error(), "building decimals")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "nothing"))
}

func TestAsType(t *testing.T) {
	err := errors.Wrap(errors.TooManyFilterMisses(3), "generating")

	appErr, ok := errors.AsType[*errors.AppError](err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTooManyFilterMisses, appErr.Code)
	assert.Equal(t, 3, errors.TooManyFilterMisses(3).Details["misses"])
}
