package xloss

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"
)

const (
	idAlphabet   = "abcdefghijklmnopqrstuvwxyz"
	idSegmentLen = 5
	idLen        = idSegmentLen*2 + 1
)

// Identifier names one protected element. It is used as the custom element
// tag (or DOM id), the CSS variable name and the cipher passphrase.
type Identifier string

// String returns the identifier as a string.
func (id Identifier) String() string { return string(id) }

// Valid reports whether id has the shape [a-z]{5}-[a-z]{5}.
func (id Identifier) Valid() bool {
	if len(id) != idLen || id[idSegmentLen] != '-' {
		return false
	}
	for i := 0; i < len(id); i++ {
		if i == idSegmentLen {
			continue
		}
		if id[i] < 'a' || id[i] > 'z' {
			return false
		}
	}
	return true
}

// Mirrored reports whether both halves of id are identical. Every
// identifier produced by IDGenerator is mirrored.
func (id Identifier) Mirrored() bool {
	return id.Valid() && id[:idSegmentLen] == id[idSegmentLen+1:]
}

// IntSource draws uniform integers in [0, n). *math/rand/v2.Rand satisfies it.
type IntSource interface {
	IntN(n int) int
}

// IDGenerator produces identifiers. It does not guarantee uniqueness;
// the Injector checks candidates against the page before using them.
type IDGenerator struct {
	mu  sync.Mutex
	src IntSource
}

// NewIDGenerator returns a generator drawing from src. A nil src selects a
// ChaCha8 generator seeded from crypto/rand.
func NewIDGenerator(src IntSource) *IDGenerator {
	if src == nil {
		var seed [32]byte
		crand.Read(seed[:])
		src = rand.New(rand.NewChaCha8(seed))
	}
	return &IDGenerator{src: src}
}

// Generate draws five letters and uses the same draws for both halves.
func (g *IDGenerator) Generate() Identifier {
	g.mu.Lock()
	defer g.mu.Unlock()

	var a, b [idSegmentLen]byte
	for i := range idSegmentLen {
		c := idAlphabet[g.src.IntN(len(idAlphabet))]
		a[i] = c
		b[i] = c
	}
	return Identifier(string(a[:]) + "-" + string(b[:]))
}
