package cipher

import (
	"encoding/base64"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Seal packs a bundle into a single URL and CSS safe token:
// base64url(msgpack(bundle)).
func Seal(b Bundle) (string, error) {
	packed, err := msgpack.Marshal(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// Unseal reverses Seal.
func Unseal(token string) (Bundle, error) {
	packed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	var b Bundle
	if err := msgpack.Unmarshal(packed, &b); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return b, nil
}
