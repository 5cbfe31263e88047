package xloss

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var idPattern = regexp.MustCompile(`^[a-z]{5}-[a-z]{5}$`)

// fixedSource returns its values in a loop.
type fixedSource struct {
	vals []int
	i    int
}

func (s *fixedSource) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}

func TestGenerateShape(t *testing.T) {
	g := NewIDGenerator(rand.New(rand.NewPCG(1, 2)))

	for range 1000 {
		id := g.Generate()
		assert.Regexp(t, idPattern, string(id))
		assert.True(t, id.Valid())
		assert.True(t, id.Mirrored(), "halves differ in %q", id)
	}
}

func TestGenerateDefaultSource(t *testing.T) {
	g := NewIDGenerator(nil)
	id := g.Generate()
	assert.True(t, id.Mirrored())
}

func TestGenerateUsesSameDrawsForBothHalves(t *testing.T) {
	g := NewIDGenerator(&fixedSource{vals: []int{0, 1, 2, 3, 25}})
	assert.Equal(t, Identifier("abcdz-abcdz"), g.Generate())
}

func TestIdentifierValidation(t *testing.T) {
	tests := []struct {
		id       Identifier
		valid    bool
		mirrored bool
	}{
		{"abcde-abcde", true, true},
		{"abcde-edcba", true, false},
		{"abcd-abcde", false, false},
		{"abcde_abcde", false, false},
		{"ABCDE-ABCDE", false, false},
		{"abcde-abcd1", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.id.Valid())
			assert.Equal(t, tt.mirrored, tt.id.Mirrored())
		})
	}
}
