// Package id generates the identifiers handed out to clients: opaque match
// IDs and the short numeric codes used to join a shared match.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// ShareCodeDigits is the fixed length of a shared-match join code.
const ShareCodeDigits = 6

// Generator creates match IDs and share codes.
type Generator interface {
	NewMatchID() string
	NewShareCode() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewMatchID() string {
	return uuid.NewString()
}

// NewShareCode returns a zero-padded 6-digit numeric code. Collisions are
// the caller's problem: the share service retries until the code is free.
func (g *RandomGenerator) NewShareCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < ShareCodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("read random share code: %w", err)
	}
	return fmt.Sprintf("%0*d", ShareCodeDigits, n), nil
}
