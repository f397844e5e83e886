// Package signer provides HMAC-SHA256 signing and verification of short
// messages, used for links that must prove the server issued them.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureLength is the number of hex characters kept from the HMAC.
const SignatureLength = 24

// Signer signs messages with a shared secret.
type Signer struct {
	secret []byte
}

// New creates a Signer with the given secret.
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Message joins a purpose and its parts into the pipe-delimited form that
// gets signed, e.g. Message("unsubscribe", email) is "unsubscribe|<email>".
func Message(purpose string, parts ...string) string {
	return strings.Join(append([]string{purpose}, parts...), "|")
}

// Sign returns the first SignatureLength hex characters of HMAC-SHA256(message).
func (s *Signer) Sign(message string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))[:SignatureLength]
}

// Verify reports whether signature matches message, in constant time.
func (s *Signer) Verify(message, signature string) bool {
	if len(signature) != SignatureLength {
		return false
	}
	return hmac.Equal([]byte(s.Sign(message)), []byte(strings.ToLower(signature)))
}
