// Package cipher implements the passphrase based authenticated encryption
// used to obfuscate protected content before it is embedded in a stylesheet.
//
// Keys are stretched from the passphrase with PBKDF2-SHA256 over a random
// 16-byte salt and used with AES-256-GCM under a random 12-byte IV. Every
// Encrypt call draws fresh salt and IV, so a Bundle carries everything needed
// for decryption except the passphrase itself.
package cipher

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Parameters fixed for interoperability with previously produced bundles.
const (
	KeySize    = 32     // AES-256
	NonceSize  = 12     // GCM IV
	SaltSize   = 16     // PBKDF2 salt
	Iterations = 100000 // PBKDF2 rounds
)

var (
	// ErrAuthentication is returned when the GCM tag does not verify: the
	// cipher text was altered, or the passphrase, IV or salt do not match.
	ErrAuthentication = errors.New("cipher: authentication failed")

	// ErrInvalidBundle is returned for bundles that cannot be decrypted at all
	// (undecodable cipher text, wrong IV or salt length).
	ErrInvalidBundle = errors.New("cipher: invalid bundle")
)

// Bundle is the self-describing result of an encryption.
type Bundle struct {
	CipherText string `json:"cipherText" msgpack:"c"`
	IV         []byte `json:"iv" msgpack:"i"`
	Salt       []byte `json:"salt" msgpack:"s"`
}

// Cipher encrypts and decrypts strings under a passphrase.
// The zero value is not usable; construct with New.
type Cipher struct {
	rand io.Reader
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithRand replaces the randomness source used for salts and IVs.
func WithRand(r io.Reader) Option {
	return func(c *Cipher) {
		c.rand = r
	}
}

// New creates a Cipher reading randomness from crypto/rand unless overridden.
func New(opts ...Option) *Cipher {
	c := &Cipher{rand: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeriveKey stretches passphrase into a 256-bit key with PBKDF2-SHA256.
func DeriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, Iterations, KeySize, sha256.New)
}

// Encrypt seals plaintext under passphrase with fresh salt and IV.
func (c *Cipher) Encrypt(plaintext, passphrase string) (Bundle, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return Bundle{}, fmt.Errorf("generate salt: %w", err)
	}
	iv := make([]byte, NonceSize)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return Bundle{}, fmt.Errorf("generate iv: %w", err)
	}

	gcm, err := newGCM(DeriveKey(passphrase, salt))
	if err != nil {
		return Bundle{}, err
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	return Bundle{
		CipherText: base64.StdEncoding.EncodeToString(sealed),
		IV:         iv,
		Salt:       salt,
	}, nil
}

// Decrypt rederives the key from passphrase and salt and opens cipherText.
func (c *Cipher) Decrypt(cipherText, passphrase string, iv, salt []byte) (string, error) {
	if len(iv) != NonceSize {
		return "", fmt.Errorf("%w: iv is %d bytes, want %d", ErrInvalidBundle, len(iv), NonceSize)
	}
	if len(salt) != SaltSize {
		return "", fmt.Errorf("%w: salt is %d bytes, want %d", ErrInvalidBundle, len(salt), SaltSize)
	}

	sealed, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	gcm, err := newGCM(DeriveKey(passphrase, salt))
	if err != nil {
		return "", err
	}

	plain, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrAuthentication
	}
	return string(plain), nil
}

// Open decrypts a Bundle produced by Encrypt.
func (c *Cipher) Open(b Bundle, passphrase string) (string, error) {
	return c.Decrypt(b.CipherText, passphrase, b.IV, b.Salt)
}

func newGCM(key []byte) (gocipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := gocipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
