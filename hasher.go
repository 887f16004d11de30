package auth

// HashingAlgorithm selects one of the interchangeable password hashing strategies.
type HashingAlgorithm string

const (
	HashingArgon2 HashingAlgorithm = "argon2"
	HashingBcrypt HashingAlgorithm = "bcrypt"
	HashingScrypt HashingAlgorithm = "scrypt"
	HashingPBKDF2 HashingAlgorithm = "pbkdf2"
)

// HashingAlgorithms lists every supported strategy name.
func HashingAlgorithms() []HashingAlgorithm {
	return []HashingAlgorithm{HashingArgon2, HashingBcrypt, HashingScrypt, HashingPBKDF2}
}

// PasswordHasher is the two-operation contract every strategy implements.
// Create hashes a plaintext password into a self-describing digest.
// Verify reports whether password matches digest; malformed or foreign
// digests are a mismatch, never an error.
type PasswordHasher interface {
	Create(password string) (string, error)
	Verify(password, digest string) bool
}

var hashers = map[HashingAlgorithm]PasswordHasher{
	HashingArgon2: Argon2Hasher{},
	HashingBcrypt: BcryptHasher{},
	HashingScrypt: ScryptHasher{},
	HashingPBKDF2: PBKDF2Hasher{},
}

// HasherFor maps a validated algorithm name to its strategy.
func HasherFor(algorithm HashingAlgorithm) (PasswordHasher, error) {
	hasher, ok := hashers[algorithm]
	if !ok {
		return nil, ErrUnknownHasher
	}
	return hasher, nil
}
