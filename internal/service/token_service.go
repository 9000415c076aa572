package service

// TokenService signs and parses the stateless bearer credential.
type TokenService interface {
	Sign(userID uint) (string, error)
	Parse(token string) (uint, error)
}
