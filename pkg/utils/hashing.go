package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain pass key with bcrypt at default cost.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CompareInBcrypt compares bcrypt hashed value against plain string.
// NOTE: bcrypt over general-purpose hashes for passwords:
// https://rietta.com/blog/2016/02/05/bcrypt-not-sha-for-passwords/
func CompareInBcrypt(hashed, plain string) bool {
	var (
		hashedBytes = []byte(hashed)
		plainBytes  = []byte(plain)
	)

	return nil == bcrypt.CompareHashAndPassword(hashedBytes, plainBytes)
}
