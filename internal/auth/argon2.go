// Package auth provides password hashing, bearer tokens and request auth context.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Argon2Params are the cost settings of an Argon2id hash.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgon2Params is used for every new hash (OWASP minimum for Argon2id).
var DefaultArgon2Params = Argon2Params{
	Memory:  64 * 1024,
	Time:    3,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password is empty")
)

// argon2Hash is a decoded PHC string:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
type argon2Hash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func (h argon2Hash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

func parseArgon2Hash(encoded string) (argon2Hash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return argon2Hash{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argon2Hash{}, ErrInvalidHash
	}
	if version != argon2.Version {
		return argon2Hash{}, ErrIncompatibleVersion
	}

	var h argon2Hash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.params.Memory, &h.params.Time, &h.params.Threads); err != nil {
		return argon2Hash{}, ErrInvalidHash
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return argon2Hash{}, ErrInvalidHash
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(h.key) == 0 {
		return argon2Hash{}, ErrInvalidHash
	}
	h.params.SaltLen = uint32(len(h.salt))
	h.params.KeyLen = uint32(len(h.key))
	return h, nil
}

// HashPassword creates an Argon2id hash of password with DefaultArgon2Params
// and returns it in PHC string format.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	p := DefaultArgon2Params
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	h := argon2Hash{
		params: p,
		salt:   salt,
		key:    argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen),
	}
	return h.String(), nil
}

// VerifyPassword checks if the password matches the stored hash.
// Argon2id PHC strings and bcrypt hashes ($2a$, $2b$, $2y$) are accepted.
// A mismatch returns (false, nil); only a malformed hash returns an error.
func VerifyPassword(password, encodedHash string) (bool, error) {
	if isBcryptHash(encodedHash) {
		return verifyBcrypt(password, encodedHash)
	}

	h, err := parseArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}

	p := h.params
	computed := argon2.IDKey([]byte(password), h.salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(computed, h.key) == 1, nil
}

// NeedsRehash reports whether a hash that just verified should be replaced
// by a fresh HashPassword result: bcrypt hashes and Argon2id hashes with
// parameters other than DefaultArgon2Params.
func NeedsRehash(encodedHash string) bool {
	if isBcryptHash(encodedHash) {
		return true
	}
	h, err := parseArgon2Hash(encodedHash)
	if err != nil {
		return false
	}
	return h.params != DefaultArgon2Params
}

func isBcryptHash(h string) bool {
	return strings.HasPrefix(h, "$2a$") || strings.HasPrefix(h, "$2b$") || strings.HasPrefix(h, "$2y$")
}

func verifyBcrypt(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}
