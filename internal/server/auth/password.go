package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of plaintext at the given cost.
// bcrypt salts internally, so hashing the same plaintext twice produces
// different outputs. Cost values outside bcrypt's range fall back to
// bcrypt.DefaultCost.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash. Any
// failure, including a malformed hash, is reported as a mismatch so login
// treats it as "credentials do not match" rather than an internal fault.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
