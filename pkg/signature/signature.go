// Package signature verifies X-Hub-Signature headers of hub push notifications.
package signature

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // sha1 is part of the hub signature protocol
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// Header is a parsed signature header value, "algorithm=hexdigest"
type Header struct {
	Algorithm string
	HexDigest string
}

var algorithms = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// ParseHeader splits header value on the first "=". Algorithm and digest are lowercased.
func ParseHeader(value string) (Header, error) {
	algo, digest, ok := strings.Cut(strings.TrimSpace(value), "=")
	if !ok {
		return Header{}, errors.New("missing separator")
	}
	if algo == "" || digest == "" {
		return Header{}, errors.New("empty algorithm or digest")
	}
	return Header{Algorithm: strings.ToLower(algo), HexDigest: strings.ToLower(digest)}, nil
}

// Sign returns hex-encoded HMAC of body with the given algorithm
func Sign(secret, algorithm string, body []byte) (string, error) {
	newHash, ok := algorithms[strings.ToLower(algorithm)]
	if !ok {
		return "", fmt.Errorf("unsupported algorithm %q", algorithm)
	}
	mac := hmac.New(newHash, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks header against HMAC of body keyed by secret.
// Malformed headers and unsupported algorithms fail verification.
func Verify(secret, header string, body []byte) bool {
	h, err := ParseHeader(header)
	if err != nil {
		return false
	}
	expected, err := Sign(secret, h.Algorithm, body)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(h.HexDigest))
}
