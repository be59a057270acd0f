package ports

// PasswordHasher is the one-way credential primitive.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
