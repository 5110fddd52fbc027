package port

// TokenService issues and validates session tokens
type TokenService interface {
	Issue(userID string) (string, error)
	// Validate returns the user ID carried by token
	Validate(token string) (string, error)
}

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
