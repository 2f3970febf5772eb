package utils

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is the minimum accepted length for new passwords.
const MinPasswordLength = 8

// HashPassword returns the bcrypt hash of the password using a cost that balances security and performance.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidNewPassword reports whether a candidate password meets the length policy.
func ValidNewPassword(password string) bool {
	return len(password) >= MinPasswordLength
}
