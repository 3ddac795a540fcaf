package usecase

import (
	"context"
	"fmt"

	"github.com/vadimbarashkov/link-shortener/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	defaultAliasLength      = 6
	defaultMaxAliasAttempts = 20
)

type aliasChecker interface {
	ExistsByAlias(ctx context.Context, alias string) (bool, error)
}

// AliasGenerator produces fixed-length alphanumeric aliases.
type AliasGenerator struct {
	length      int
	maxAttempts int
}

// NewAliasGenerator returns a generator of aliases of the given length that
// gives up allocation after maxAttempts candidates. Non-positive values fall
// back to 6 characters and 20 attempts.
func NewAliasGenerator(length, maxAttempts int) *AliasGenerator {
	if length <= 0 {
		length = defaultAliasLength
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAliasAttempts
	}

	return &AliasGenerator{
		length:      length,
		maxAttempts: maxAttempts,
	}
}

// Generate returns a random candidate alias. It does not check uniqueness.
func (g *AliasGenerator) Generate() (string, error) {
	const op = "usecase.AliasGenerator.Generate"

	alias, err := gonanoid.Generate(alphanumeric, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate alias: %w", op, err)
	}

	return alias, nil
}

// AllocateUnique generates candidates until checker reports one as unused.
// The check is advisory: the storage unique constraint has the final word.
func (g *AliasGenerator) AllocateUnique(ctx context.Context, checker aliasChecker) (string, error) {
	const op = "usecase.AliasGenerator.AllocateUnique"

	for i := 0; i < g.maxAttempts; i++ {
		alias, err := g.Generate()
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		if isReservedAlias(alias) {
			continue
		}

		exists, err := checker.ExistsByAlias(ctx, alias)
		if err != nil {
			return "", fmt.Errorf("%s: failed to check alias: %w", op, err)
		}

		if !exists {
			return alias, nil
		}
	}

	return "", fmt.Errorf("%s: %w", op, entity.ErrAllocationExhausted)
}
