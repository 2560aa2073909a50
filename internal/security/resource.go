package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignResource ties a document id to its object key so a download request
// cannot be replayed against another object.
func SignResource(secret string, parts ...string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	payload := strings.Join(parts, ":")
	mac.Write([]byte(payload))
	sum := mac.Sum(nil)
	return []byte(base64.RawURLEncoding.EncodeToString(sum))
}

func VerifyResource(secret string, signature []byte, parts ...string) bool {
	expected := SignResource(secret, parts...)
	return hmac.Equal(signature, expected)
}
