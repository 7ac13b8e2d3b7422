package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
)

func TestHashIsNotPlaintextAndCompares(t *testing.T) {
	hash, err := Hash("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)
	require.NotContains(t, hash, "hunter2")

	require.NoError(t, Compare(hash, "hunter2"))
	require.True(t, errors.Is(Compare(hash, "hunter3"), ErrMismatch))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same")
	require.NoError(t, err)
	second, err := Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestCompareMalformedHash(t *testing.T) {
	err := Compare("not-a-bcrypt-hash", "x")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrMismatch))
}

func TestCompareDecoyDoesNotPanic(t *testing.T) {
	CompareDecoy("anything")
	CompareDecoy("anything else")
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	_, err := Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	_, err = Hash(strings.Repeat("a", 72))
	require.NoError(t, err)
}
