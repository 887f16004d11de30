package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor applied to new digests. Stored digests embed
// their own cost, so changing this does not invalidate existing hashes.
var BcryptCost = 12

// BcryptHasher hashes passwords with bcrypt. The digest format is the
// library-native modular crypt string, which embeds cost and salt.
type BcryptHasher struct{}

func (BcryptHasher) Create(password string) (string, error) {
	if _, err := ProcessNonEmptyString(password); err != nil {
		return "", err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
