// PASSWORD HASHING
//
// TWO SCHEMES:
//
//	sha256  hex(SHA-256(password)), unsalted. Every account created before
//	        this service existed is stored this way, and login must keep
//	        accepting it byte for byte.
//	bcrypt  $2a$<cost>$<salt><hash>, salted and deliberately slow.
//
// Hash always uses the configured scheme. Verify looks at the stored hash
// and picks the matching algorithm, so switching PASSWORD_SCHEME to bcrypt
// affects new registrations only and never locks out existing accounts.
//
// Unsalted SHA-256 is weak: identical passwords produce identical hashes and
// GPUs compute billions per second. It is kept as the default only for
// compatibility with the existing users table.

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Scheme names a password hashing algorithm.
type Scheme string

const (
	SchemeSHA256 Scheme = "sha256"
	SchemeBcrypt Scheme = "bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
// Roughly 250ms per hash on current server hardware.
const DefaultBcryptCost = 12

var (
	// ErrPasswordMismatch is returned by Verify when the password is wrong.
	ErrPasswordMismatch = errors.New("auth: invalid password")

	// ErrPasswordTooLong is returned by Hash for bcrypt inputs over 72 bytes.
	ErrPasswordTooLong = errors.New("Password must be 72 bytes or fewer")
)

// ParseScheme maps a config string onto a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeSHA256:
		return SchemeSHA256, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	}
	return "", fmt.Errorf("auth: unknown password scheme %q", s)
}

// PasswordService hashes and verifies passwords.
//
// It's a struct (not free functions) so the scheme and bcrypt cost can be
// injected: tests use cost 4, the bcrypt minimum, to stay fast.
type PasswordService struct {
	scheme Scheme
	cost   int
}

// NewPasswordService creates a PasswordService for the given scheme.
// A cost outside bcrypt's accepted range falls back to DefaultBcryptCost.
func NewPasswordService(scheme Scheme, cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordService{scheme: scheme, cost: cost}
}

// Scheme reports the scheme used for new hashes.
func (p *PasswordService) Scheme() Scheme {
	return p.scheme
}

// Hash hashes plaintext with the configured scheme.
//
// SHA-256 is deterministic: the same password always yields the same 64-char
// hex string. bcrypt is salted: two calls never return the same string.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	switch p.scheme {
	case SchemeBcrypt:
		if len(plaintext) > 72 {
			// bcrypt silently truncates after 72 bytes; reject instead.
			return "", ErrPasswordTooLong
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
		if err != nil {
			return "", fmt.Errorf("auth: hashing password: %w", err)
		}
		return string(hashed), nil
	default:
		return sha256Hex(plaintext), nil
	}
}

// Verify checks plaintext against a stored hash of either scheme.
//
// Returns nil on a match, ErrPasswordMismatch on a wrong password, and any
// other error for a malformed stored hash.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if isBcrypt(hash) {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrPasswordMismatch
			}
			return fmt.Errorf("auth: comparing password hash: %w", err)
		}
		return nil
	}

	// Constant-time compare so response time does not leak how many leading
	// characters of the hash matched.
	if subtle.ConstantTimeCompare([]byte(hash), []byte(sha256Hex(plaintext))) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// isBcrypt recognises the $2a$ / $2b$ / $2y$ prefixes.
func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}
