package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// One hashing scheme for user passwords and link passwords.
const bcryptCost = bcrypt.DefaultCost

func hashPassword(password string) (string, error) {
	const op = "service.hashPassword"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
