package util

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"
)

// Argon2Params are the argon2id cost settings for stored admin credentials.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   int
}

var DefaultArgon2 = Argon2Params{Time: 1, MemoryKiB: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}

// PasswordPolicy describes what an admin password must contain.
type PasswordPolicy struct {
	MinLength int
}

var AdminPasswordPolicy = PasswordPolicy{MinLength: 12}

// Check reports every rule password breaks in one error.
func (p PasswordPolicy) Check(password string) error {
	var missing []string
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			symbol = true
		}
	}
	if n := len([]rune(password)); n < p.MinLength {
		missing = append(missing, fmt.Sprintf("%d more characters", p.MinLength-n))
	}
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !lower {
		missing = append(missing, "a lowercase letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !symbol {
		missing = append(missing, "a symbol")
	}
	if len(missing) > 0 {
		return fmt.Errorf("password needs %s", strings.Join(missing, ", "))
	}
	return nil
}

func ValidatePassword(password string) error {
	return AdminPasswordPolicy.Check(password)
}

func (a Argon2Params) hash(password string, salt []byte) ([]byte, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	if len(salt) == 0 {
		return nil, errors.New("salt cannot be empty")
	}
	return argon2.IDKey([]byte(password), salt, a.Time, a.MemoryKiB, a.Threads, a.KeyLen), nil
}

// DerivePassword returns a fresh salt and the argon2id hash of password.
func DerivePassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, DefaultArgon2.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("password salt: %w", err)
	}
	hash, err = DefaultArgon2.hash(password, salt)
	if err != nil {
		return nil, nil, err
	}
	return hash, salt, nil
}

func VerifyPassword(password string, salt, expected []byte) bool {
	if len(expected) == 0 {
		return false
	}
	candidate, err := DefaultArgon2.hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}
