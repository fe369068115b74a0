package entities

import (
	"strings"
	"unicode"
)

// MaxIdentityLength bounds the stored identity text
const MaxIdentityLength = 128

// Identity references a party (lottery authority, ticket buyer, account holder).
// Key management and signatures live outside the ledger; an identity is an opaque string.
type Identity string

// Validate checks the identity is non-empty, bounded and free of whitespace
func (id Identity) Validate() error {
	s := string(id)
	if s == "" || len(s) > MaxIdentityLength {
		return ErrInvalidIdentity
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return ErrInvalidIdentity
	}
	return nil
}

// String returns the identity text
func (id Identity) String() string {
	return string(id)
}
