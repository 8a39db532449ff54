package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters, OWASP-recommended: 19 MiB memory, 2 iterations,
// 1 lane. The parameters are embedded in every encoded hash, so stored
// hashes keep verifying if these constants change later.
const (
	memoryKiB   = 19456
	iterations  = 2
	parallelism = 1
	saltLen     = 16
	keyLen      = 32
)

// Hash derives an Argon2id hash of plaintext and returns it in PHC string
// format: $argon2id$v=19$m=19456,t=2,p=1$<salt>$<key>.
func Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(plaintext), salt, iterations, memoryKiB, parallelism, keyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memoryKiB, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches the encoded hash. Malformed or
// unsupported hashes return false, never an error.
func Verify(plaintext, encoded string) bool {
	salt, key, m, t, p, ok := decode(encoded)
	if !ok {
		return false
	}
	candidate := argon2.IDKey([]byte(plaintext), salt, t, m, p, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

func decode(encoded string) (salt, key []byte, m uint32, t uint32, p uint8, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return nil, nil, 0, 0, 0, false
	}
	if m == 0 || t == 0 || p == 0 {
		return nil, nil, 0, 0, 0, false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, nil, 0, 0, 0, false
	}
	return salt, key, m, t, p, true
}
