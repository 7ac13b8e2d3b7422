package password

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
)

var ErrMismatch = errors.New("password mismatch")

var (
	decoyOnce sync.Once
	decoyHash []byte
)

// Hash rejects passwords bcrypt cannot take (over 72 bytes) as ErrInvalid.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %w", appErr.ErrInvalid, err)
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports ErrMismatch when plain does not match hash. Any other
// error means the stored hash itself is unusable.
func Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// CompareDecoy burns the same bcrypt work as Compare so a lookup miss takes
// as long as a wrong password.
func CompareDecoy(plain string) {
	decoyOnce.Do(func() {
		decoyHash, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plain))
}
