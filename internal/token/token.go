// Package token produces the two secret formats used by verification flows:
// a 6-digit numeric OTP and a long opaque token for clickable links.
package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// Source abstracts secret generation so services can be tested with a
// deterministic double.
type Source interface {
	OTP() (string, error)
	Opaque() (string, error)
}

// SecureSource draws from crypto/rand.
type SecureSource struct{}

var otpMax = big.NewInt(1_000_000)

// OTP returns a uniformly distributed 6-digit code, zero-padded.
func (SecureSource) OTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Opaque returns two random base-36 segments plus a timestamp suffix,
// comfortably over 20 characters.
func (SecureSource) Opaque() (string, error) {
	s1, err := randSegment()
	if err != nil {
		return "", err
	}
	s2, err := randSegment()
	if err != nil {
		return "", err
	}
	return s1 + s2 + strconv.FormatInt(time.Now().UnixNano(), 36), nil
}

func randSegment() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("opaque token: %w", err)
	}
	n := new(big.Int).SetBytes(buf)
	// Zero-pad so segment length is stable regardless of leading zero bytes.
	return fmt.Sprintf("%013s", n.Text(36)), nil
}
