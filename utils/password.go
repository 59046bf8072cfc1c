package utils

import (
	"github.com/matthewhartstonge/argon2"
)

// PasswordHasher wraps an argon2 configuration. The zero value is not usable;
// construct one with NewPasswordHasher or FastPasswordHasher.
type PasswordHasher struct {
	config argon2.Config
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{config: argon2.DefaultConfig()}
}

// FastPasswordHasher trades strength for speed and is meant for tests and
// the in-memory dev server only.
func FastPasswordHasher() *PasswordHasher {
	cfg := argon2.DefaultConfig()
	cfg.MemoryCost = 8 * 1024
	cfg.TimeCost = 1
	cfg.Parallelism = 1
	return &PasswordHasher{config: cfg}
}

func (h *PasswordHasher) HashPassword(password string) (string, error) {
	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (h *PasswordHasher) VerifyPassword(encodedHash, password string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, err
	}
	return ok, nil
}
