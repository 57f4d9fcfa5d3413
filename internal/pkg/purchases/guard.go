package purchases

import (
	"crypto/hmac"
	"strings"
)

// AuthorizeWebhook checks that an inbound webhook request carries the
// configured shared secret in its Authorization header. The provider can
// be configured to send either the raw secret or "Bearer <secret>"; both
// forms are accepted. Fails closed: an empty configured secret rejects
// every request.
func AuthorizeWebhook(authHeader, secret string) bool {
	s := strings.TrimSpace(secret)
	if s == "" {
		return false
	}
	header := strings.TrimSpace(authHeader)
	if header == "" {
		return false
	}

	if secretEqual(header, s) {
		return true
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return secretEqual(strings.TrimSpace(header[7:]), s)
	}
	return false
}

func secretEqual(got, want string) bool {
	return hmac.Equal([]byte(got), []byte(want))
}
