package xloss

import (
	"context"
	"fmt"

	"github.com/pthm/xloss/lib/cipher"
)

// SecuredContent is the outcome of securing a piece of text: the encrypted
// form and the plaintext recovered by decrypting it again.
type SecuredContent struct {
	CipherText string
	Plaintext  string
	// Sealed is the whole bundle (cipher text, IV and salt) as one token.
	Sealed string
	Bundle cipher.Bundle
}

// Securer encrypts content under per-element key material and validates
// the round trip before the result is embedded anywhere.
//
// The key material ends up in the same page as the cipher text, so this
// hides text from markup scrapers only; it is not confidentiality.
type Securer struct {
	cipher *cipher.Cipher
}

// NewSecurer returns a Securer using c, or a default cipher when c is nil.
func NewSecurer(c *cipher.Cipher) *Securer {
	if c == nil {
		c = cipher.New()
	}
	return &Securer{cipher: c}
}

// Secure encrypts content with keyMaterial as passphrase, decrypts it again
// and checks the result equals content.
func (s *Securer) Secure(ctx context.Context, content, keyMaterial string) (SecuredContent, error) {
	if err := ctx.Err(); err != nil {
		return SecuredContent{}, err
	}

	bundle, err := s.cipher.Encrypt(content, keyMaterial)
	if err != nil {
		return SecuredContent{}, fmt.Errorf("encrypt content: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return SecuredContent{}, err
	}

	plain, err := s.cipher.Open(bundle, keyMaterial)
	if err != nil {
		return SecuredContent{}, fmt.Errorf("decrypt content: %w", err)
	}
	if plain != content {
		return SecuredContent{}, ErrRoundTrip
	}

	sealed, err := cipher.Seal(bundle)
	if err != nil {
		return SecuredContent{}, fmt.Errorf("seal bundle: %w", err)
	}

	return SecuredContent{
		CipherText: bundle.CipherText,
		Plaintext:  plain,
		Sealed:     sealed,
		Bundle:     bundle,
	}, nil
}

// Reveal opens a sealed token produced by Secure.
func (s *Securer) Reveal(sealed, keyMaterial string) (string, error) {
	bundle, err := cipher.Unseal(sealed)
	if err != nil {
		return "", err
	}
	return s.cipher.Open(bundle, keyMaterial)
}
