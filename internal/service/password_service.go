package service

// PasswordService wraps the one-way credential hash. Hash is salted and
// non-deterministic; Verify delegates to the primitive's own safe compare.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}
