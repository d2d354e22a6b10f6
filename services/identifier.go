package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	ShortIDLength = 8

	accessCodeMin = 100000
	accessCodeMax = 999999
)

// IIdentifierGenerator produces the public handle and the stats secret of a questionnaire.
type IIdentifierGenerator interface {
	ShortID() (string, error)
	AccessCode() (string, error)
}

// IdentifierGenerator draws from crypto/rand.
type IdentifierGenerator struct{}

func NewIdentifierGenerator() IIdentifierGenerator { return IdentifierGenerator{} }

// ShortID returns 8 characters from the URL-safe alphabet A-Za-z0-9_-.
// Uniqueness is enforced by the store, not here.
func (IdentifierGenerator) ShortID() (string, error) {
	id, err := gonanoid.New(ShortIDLength)
	if err != nil {
		return "", fmt.Errorf("generate short id: %w", err)
	}
	return id, nil
}

// AccessCode returns a uniformly drawn number in [100000, 999999] as a string.
func (IdentifierGenerator) AccessCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(accessCodeMax-accessCodeMin+1))
	if err != nil {
		return "", fmt.Errorf("generate access code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+accessCodeMin), nil
}

var _ IIdentifierGenerator = IdentifierGenerator{}
