package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 digest layout, bit-exact contract:
//
//	{digest-name}${iterations}${hash-length}${base64-salt}${base64-hash}
//
// The encoding is self-describing: verification reads the digest name,
// iteration count, and hash length back from the stored string, so these
// constants can change without invalidating digests already on disk.
const (
	pbkdf2Digest     = "sha512"
	pbkdf2Iterations = 210_000
	pbkdf2SaltBytes  = 64
	pbkdf2HashBytes  = 64
)

var pbkdf2Digests = map[string]func() hash.Hash{
	"sha512": sha512.New,
	"sha256": sha256.New,
}

// PBKDF2Hasher hashes passwords with PBKDF2-HMAC-SHA512 and a fresh random
// salt per call.
type PBKDF2Hasher struct{}

func (PBKDF2Hasher) Create(password string) (string, error) {
	if _, err := ProcessNonEmptyString(password); err != nil {
		return "", err
	}

	salt := make([]byte, pbkdf2SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2HashBytes, pbkdf2Digests[pbkdf2Digest])

	return fmt.Sprintf(
		"%s$%d$%d$%s$%s",
		pbkdf2Digest,
		pbkdf2Iterations,
		pbkdf2HashBytes,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

func (PBKDF2Hasher) Verify(password, digest string) bool {
	parts := strings.Split(digest, "$")
	if len(parts) != 5 {
		return false
	}

	newDigest, ok := pbkdf2Digests[parts[0]]
	if !ok {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations < 1 {
		return false
	}

	hashLen, err := strconv.Atoi(parts[2])
	if err != nil || hashLen < 1 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}

	expected, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil || len(expected) != hashLen {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, hashLen, newDigest)

	return subtle.ConstantTimeCompare(key, expected) == 1
}
