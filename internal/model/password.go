package model

// PasswordHasher derives and checks password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, stored string) (bool, error)
}
