package shortener

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// CodeBytes is the number of random bytes behind each short code
	CodeBytes = 4

	// CodeLength is the rendered length of a short code (two hex digits per byte)
	CodeLength = CodeBytes * 2
)

// Generator produces candidate short codes. Uniqueness is not guaranteed;
// the caller must handle collisions on insert.
type Generator interface {
	Generate() string
}

// GeneratorFunc adapts a plain function to the Generator interface
type GeneratorFunc func() string

// Generate calls f()
func (f GeneratorFunc) Generate() string {
	return f()
}

// CodeGenerator renders CodeBytes of entropy as lowercase hexadecimal.
//
// The 32-bit code space reaches a 50% collision probability around 2^16
// stored mappings.
type CodeGenerator struct {
	entropy io.Reader
}

// NewCodeGenerator creates a generator backed by crypto/rand
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{entropy: rand.Reader}
}

// NewCodeGeneratorFromReader creates a generator reading entropy from r.
// Useful for deterministic codes in tests.
func NewCodeGeneratorFromReader(r io.Reader) *CodeGenerator {
	return &CodeGenerator{entropy: r}
}

// Generate returns a fresh 8-character code. A failing entropy source is
// unrecoverable and panics.
func (g *CodeGenerator) Generate() string {
	buf := make([]byte, CodeBytes)
	if _, err := io.ReadFull(g.entropy, buf); err != nil {
		panic(fmt.Sprintf("shortener: entropy source failed: %v", err))
	}
	return hex.EncodeToString(buf)
}

// IsValid reports whether code has the shape of a generated code
func IsValid(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
