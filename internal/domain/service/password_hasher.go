// Package service defines the contracts of the collaborators the sign-in flow depends on.
// Implementations live under internal/infra.
package service

// PasswordHasher hashes the password chosen on the registration completion form.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)
}
