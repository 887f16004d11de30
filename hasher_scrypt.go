package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// ScryptParams are the cost parameters applied to new scrypt digests.
// N is expressed as log2 so the encoded form stays compact.
type ScryptParams struct {
	LogN       int
	R          int
	P          int
	SaltLength int
	KeyLength  int
}

var defaultScryptParams = ScryptParams{
	LogN:       15,
	R:          8,
	P:          1,
	SaltLength: 16,
	KeyLength:  32,
}

// ScryptHasher hashes passwords with scrypt using a PHC-style string:
// $scrypt$ln=15,r=8,p=1$<b64 salt>$<b64 hash>
type ScryptHasher struct{}

func (ScryptHasher) Create(password string) (string, error) {
	if _, err := ProcessNonEmptyString(password); err != nil {
		return "", err
	}

	params := defaultScryptParams

	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash, err := scrypt.Key([]byte(password), salt, 1<<params.LogN, params.R, params.P, params.KeyLength)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"$scrypt$ln=%d,r=%d,p=%d$%s$%s",
		params.LogN, params.R, params.P,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func (ScryptHasher) Verify(password, digest string) bool {
	params, salt, hash, ok := decodeScryptDigest(digest)
	if !ok {
		return false
	}

	other, err := scrypt.Key([]byte(password), salt, 1<<params.LogN, params.R, params.P, params.KeyLength)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(hash, other) == 1
}

func decodeScryptDigest(digest string) (ScryptParams, []byte, []byte, bool) {
	var params ScryptParams

	parts := strings.Split(digest, "$")
	if len(parts) != 5 || parts[1] != "scrypt" {
		return params, nil, nil, false
	}

	if _, err := fmt.Sscanf(parts[2], "ln=%d,r=%d,p=%d", &params.LogN, &params.R, &params.P); err != nil {
		return params, nil, nil, false
	}

	if params.LogN < 1 || params.LogN > 31 || params.R < 1 || params.P < 1 {
		return params, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return params, nil, nil, false
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(hash) == 0 {
		return params, nil, nil, false
	}

	params.SaltLength = len(salt)
	params.KeyLength = len(hash)

	return params, salt, hash, true
}
