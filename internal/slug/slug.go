// Package slug allocates short public page identifiers.
package slug

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	Length      = 8
	MaxAttempts = 4

	// Alphabet leaves out look-alike symbols such as 0/o, 1/l/i.
	Alphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

var (
	// ErrConflict is returned by a write when the slug is already taken.
	ErrConflict = errors.New("slug already taken")

	ErrAllocationFailed = errors.New("unable to generate a unique link, try again")
)

type Generator func() (string, error)

// WriteFunc persists a row keyed by slug.
type WriteFunc func(ctx context.Context, slug string) error

// Random draws Length symbols from Alphabet using crypto/rand.
func Random() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	out := make([]byte, Length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = Alphabet[n.Int64()]
	}
	return string(out), nil
}

type Allocator struct {
	generate    Generator
	maxAttempts int
}

func NewAllocator(generate Generator) *Allocator {
	if generate == nil {
		generate = Random
	}
	return &Allocator{
		generate:    generate,
		maxAttempts: MaxAttempts,
	}
}

// Allocate retries write with a fresh slug on ErrConflict only. Any other
// write failure aborts immediately.
func (a *Allocator) Allocate(ctx context.Context, write WriteFunc) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate, err := a.generate()
		if err != nil {
			return "", fmt.Errorf("generate slug: %w", err)
		}

		err = write(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrConflict) {
			return "", err
		}
	}

	return "", ErrAllocationFailed
}
