package auth

// VerifyPassword checks password against the digest stored on the identity,
// using the configured hashing strategy. A wrong password is (false, nil);
// only invalid input or configuration produce an error.
func VerifyPassword(config *Config, holder CredentialHolder, password string) (bool, error) {
	if _, err := ProcessNonEmptyString(password); err != nil {
		return false, err
	}

	hasher, err := config.Hasher()
	if err != nil {
		return false, err
	}

	return hasher.Verify(password, holder.CredentialHash()), nil
}

// HashPassword hashes password with the configured strategy. Used when the
// host writes a credential outside the update-password command flow.
func HashPassword(config *Config, password string) (string, error) {
	hasher, err := config.Hasher()
	if err != nil {
		return "", err
	}

	return hasher.Create(password)
}
