package auth

import "golang.org/x/crypto/bcrypt"

// HashSecret hashes a password or client secret with the configured cost.
func HashSecret(secret string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareSecret verifies a password or client secret against its hash.
// bcrypt's comparison is slow and constant-time; never replace this with
// plain string equality.
func CompareSecret(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
