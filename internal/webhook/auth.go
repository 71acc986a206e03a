package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// Authenticator decides whether a delivery was signed with the channel secret.
// It holds no per-request state and is safe for concurrent use.
type Authenticator struct {
	secrets SecretSource
}

// NewAuthenticator returns an Authenticator reading the secret from secrets.
func NewAuthenticator(secrets SecretSource) *Authenticator {
	return &Authenticator{secrets: secrets}
}

// Authenticate checks signature against body.
//
// present reports whether the signature header was sent at all; an empty
// but present header is a mismatch, not a missing signature. The secret is
// resolved before the header is inspected so an unconfigured server always
// answers with ConfigurationError.
func (a *Authenticator) Authenticate(body []byte, signature string, present bool) Outcome {
	secret, ok := a.secrets.LookupSecret()
	if !ok {
		return ConfigurationError
	}

	if !present || !utf8.ValidString(signature) {
		return MissingSignature
	}

	if !VerifySignature([]byte(secret), body, signature) {
		return InvalidSignature
	}

	return Authenticated
}

// ComputeSignature returns base64(HMAC-SHA256(secret, body)) with standard
// padding, the form senders put in the signature header.
func ComputeSignature(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is the encoded HMAC of body.
//
// The comparison runs in constant time over the encoded strings; inputs of
// a different length fail on the length check alone.
func VerifySignature(secret, body []byte, signature string) bool {
	expected := ComputeSignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// DescribeBody renders a body for logs: the text when it is valid UTF-8,
// otherwise a placeholder carrying the byte count.
func DescribeBody(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	return fmt.Sprintf("<non-utf8 %d bytes>", len(body))
}
