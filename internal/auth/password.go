// Package auth provides credential hashing for the user service.
package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes plaintext credentials and verifies them against a
// stored digest.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// BcryptHasher is the production PasswordHasher, backed by bcrypt. The zero
// value uses bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a BcryptHasher with the default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt digest of plain. bcrypt salts internally, so two
// calls with the same input produce different digests.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored digest. The comparison is
// constant-time inside bcrypt.
func (h *BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
