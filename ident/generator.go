// Package ident generates and validates paste identifiers.
package ident

import (
	"crypto/rand"
	"math/big"
)

// DefaultLength is the id length used when none is configured.
const DefaultLength = 6

// alphabet is the full alphanumeric set. Every id character is drawn from
// here, which is what makes ids safe to embed in storage paths and URLs.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator produces fresh random identifiers of a fixed length.
type Generator struct {
	length int
}

// NewGenerator creates a generator. Non-positive lengths fall back to
// DefaultLength.
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length}
}

// Generate returns a new random id. Calls are independent of each other and
// of the store; uniqueness is enforced by the create-only write path.
func (g *Generator) Generate() (string, error) {
	result := make([]byte, g.length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := range result {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		result[i] = alphabet[n.Int64()]
	}

	return string(result), nil
}

// Length returns the configured id length.
func (g *Generator) Length() int {
	return g.length
}
