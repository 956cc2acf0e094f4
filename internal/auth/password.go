// Package auth hashes passwords and issues session tokens.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params are the argon2id cost parameters.
type Params struct {
	Memory     uint32 // KiB
	Iterations uint32
	Threads    uint8
	SaltLength int
	KeyLength  uint32
}

// DefaultParams is used by HashPassword.
var DefaultParams = Params{
	Memory:     64 * 1024,
	Iterations: 3,
	Threads:    1,
	SaltLength: 16,
	KeyLength:  32,
}

// Minimum credential lengths for new accounts.
const (
	MinUsernameLength = 3
	MinPasswordLength = 4
)

var ErrInvalidHash = errors.New("invalid argon2id hash")

// HashPassword returns a PHC-formatted argon2id hash of password.
func HashPassword(password string) (string, error) {
	return HashPasswordWith(DefaultParams, password)
}

func HashPasswordWith(p Params, password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	sum := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Threads, p.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// VerifyPassword reports whether password matches the PHC hash. A malformed
// hash never matches.
func VerifyPassword(hash, password string) bool {
	p, salt, sum, err := decodeHash(hash)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Threads, uint32(len(sum)))
	return subtle.ConstantTimeCompare(got, sum) == 1
}

func decodeHash(phc string) (Params, []byte, []byte, error) {
	var p Params
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, ErrInvalidHash
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return p, nil, nil, fmt.Errorf("%w: unsupported version %s", ErrInvalidHash, parts[2])
	}

	for _, kv := range strings.Split(parts[3], ",") {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return p, nil, nil, ErrInvalidHash
		}
		var err error
		switch key {
		case "m":
			var n uint64
			n, err = strconv.ParseUint(val, 10, 32)
			p.Memory = uint32(n)
		case "t":
			var n uint64
			n, err = strconv.ParseUint(val, 10, 32)
			p.Iterations = uint32(n)
		case "p":
			var n uint64
			n, err = strconv.ParseUint(val, 10, 8)
			p.Threads = uint8(n)
		default:
			err = fmt.Errorf("unknown param %q", key)
		}
		if err != nil {
			return p, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
		}
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Threads == 0 {
		return p, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(sum) == 0 {
		return p, nil, nil, fmt.Errorf("%w: sum", ErrInvalidHash)
	}
	return p, salt, sum, nil
}

// RandomPassword returns a URL-safe random password of n bytes of entropy.
func RandomPassword(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
