// Package code generates the 4-digit password-reset codes.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	Min = 1000
	Max = 9999
)

// Generator produces a fresh code on every call.
type Generator func() (string, error)

var span = big.NewInt(Max - Min + 1)

// New returns a code drawn uniformly from [Min, Max].
func New() (string, error) {
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()+Min), nil
}
