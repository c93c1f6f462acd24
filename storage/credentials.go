package storage

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// Argon2idParams configures Argon2id hashing parameters
type Argon2idParams struct {
	Time        uint32 `yaml:"time"`
	MemoryKiB   uint32 `yaml:"memory_kib"`
	Parallelism uint8  `yaml:"parallelism"`
	KeyLen      uint32 `yaml:"key_len"`
	SaltLen     uint32 `yaml:"salt_len"`
}

func defaultArgon2idParams() Argon2idParams {
	return Argon2idParams{Time: 1, MemoryKiB: 64 * 1024, Parallelism: 4, KeyLen: 32, SaltLen: 16}
}

// hashPassword returns the stored representation for a plaintext password.
// All new and updated credentials use this scheme; the legacy base64 encoding
// is read-only and only ever consulted by verifyPassword.
func hashPassword(password string, p Argon2idParams) (string, error) {
	return hashPasswordArgon2id(password, p)
}

// passwordVerifier is a single verification strategy: a pure predicate over
// (plaintext, stored representation). A malformed stored value must simply
// not match; it must never panic or abort the verification chain.
type passwordVerifier func(password, stored string) bool

// passwordVerifiers are tried in priority order; the first match wins.
// Adding a future scheme means appending a strategy here.
var passwordVerifiers = []passwordVerifier{
	verifyArgon2id,
	verifyLegacyBase64,
}

// verifyPassword reports whether the plaintext password matches the stored
// representation under any supported scheme. Callers only learn the boolean;
// which scheme matched is not surfaced.
func verifyPassword(password, stored string) bool {
	for _, verify := range passwordVerifiers {
		if verify(password, stored) {
			return true
		}
	}
	return false
}

// verifyArgon2id checks the password against a PHC-formatted argon2id hash.
// Stored values that are not shaped like argon2id output do not match.
func verifyArgon2id(password, stored string) bool {
	if !strings.HasPrefix(stored, "$argon2id$") {
		return false
	}
	ok, err := verifyPasswordArgon2id(stored, password)
	return err == nil && ok
}

// verifyLegacyBase64 checks the password against the historical reversible
// encoding: plain base64 of the plaintext. Stored values that do not decode
// as base64 do not match.
func verifyLegacyBase64(password, stored string) bool {
	decoded, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(decoded, []byte(password)) == 1
}

// encodeLegacyBase64 produces the historical reversible representation.
// It exists so that migration fixtures and tests can create pre-upgrade
// credentials; production code paths never store this encoding.
func encodeLegacyBase64(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password))
}

// hashPasswordArgon2id returns a PHC-formatted argon2id hash string
// Format: $argon2id$v=19$m=65536,t=1,p=4$<saltB64>$<hashB64>
func hashPasswordArgon2id(password string, p Argon2idParams) (string, error) {
	if p.Time == 0 {
		p = defaultArgon2idParams()
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Parallelism, p.KeyLen)
	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(dk)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", p.MemoryKiB, p.Time, p.Parallelism, saltB64, hashB64), nil
}

// verifyPasswordArgon2id verifies the given password against a PHC-formatted argon2id hash
func verifyPasswordArgon2id(encoded, password string) (bool, error) {
	params, salt, hash, err := parseArgon2id(encoded)
	if err != nil {
		return false, err
	}
	dk := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Parallelism, uint32(len(hash)))
	if subtle.ConstantTimeCompare(dk, hash) == 1 {
		return true, nil
	}
	return false, nil
}

// parseArgon2id parses a PHC-formatted argon2id hash and returns parameters, salt and hash bytes.
func parseArgon2id(encoded string) (Argon2idParams, []byte, []byte, error) {
	var out Argon2idParams
	if !strings.HasPrefix(encoded, "$argon2id$") {
		return out, nil, nil, errors.Errorf("unsupported password hash format")
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return out, nil, nil, errors.Errorf("invalid argon2id hash format")
	}
	if parts[2] != "v=19" {
		return out, nil, nil, errors.Errorf("unsupported argon2 version")
	}
	for _, kv := range strings.Split(parts[3], ",") {
		if strings.HasPrefix(kv, "m=") {
			v, err := strconv.ParseUint(strings.TrimPrefix(kv, "m="), 10, 32)
			if err != nil {
				return out, nil, nil, err
			}
			out.MemoryKiB = uint32(v)
		} else if strings.HasPrefix(kv, "t=") {
			v, err := strconv.ParseUint(strings.TrimPrefix(kv, "t="), 10, 32)
			if err != nil {
				return out, nil, nil, err
			}
			out.Time = uint32(v)
		} else if strings.HasPrefix(kv, "p=") {
			v, err := strconv.ParseUint(strings.TrimPrefix(kv, "p="), 10, 8)
			if err != nil {
				return out, nil, nil, err
			}
			out.Parallelism = uint8(v)
		}
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return out, nil, nil, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return out, nil, nil, err
	}
	out.SaltLen = uint32(len(salt))
	out.KeyLen = uint32(len(hash))
	return out, salt, hash, nil
}
