package xloss

import (
	"errors"

	"github.com/pthm/xloss/lib/cipher"
)

// Sentinel errors for page operations.
var (
	// ErrTagCollision means an identifier is already in use as a custom
	// element name (or could not be made unique). It aborts the injection.
	ErrTagCollision = errors.New("xloss: tag collision")

	// ErrAuthentication means a decryption integrity check failed.
	ErrAuthentication = cipher.ErrAuthentication

	// ErrInvalidBundle means cipher input could not be decoded at all.
	ErrInvalidBundle = cipher.ErrInvalidBundle

	// ErrRoundTrip means decrypting freshly encrypted content did not give
	// back the original text.
	ErrRoundTrip = errors.New("xloss: round trip mismatch")

	// ErrStylesheetLookup means a registry could not find the stylesheet of
	// the style element it owns.
	ErrStylesheetLookup = errors.New("xloss: stylesheet not found")

	// ErrInvalidIdentifier is returned for names that cannot be used as an
	// identifier or CSS variable.
	ErrInvalidIdentifier = errors.New("xloss: invalid identifier")
)

// IsCollision checks if err is a tag collision.
func IsCollision(err error) bool {
	return errors.Is(err, ErrTagCollision)
}

// IsAuthentication checks if err is a decryption integrity failure.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication) || errors.Is(err, ErrInvalidBundle)
}
