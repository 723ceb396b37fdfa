package utils // package utils provides helpers for password hashing and flash-message tokens

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Flash categories understood by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot status message shown on the page a mutation
// redirects to.
type Flash struct {
	Category string
	Message  string
}

// ErrInvalidFlash is returned for tokens that fail signature, expiry or
// shape checks.
var ErrInvalidFlash = errors.New("invalid flash token")

// NewFlashToken signs f as an HS256 JWT valid for ttl.  The token travels in
// a cookie, so the signature keeps clients from forging status messages.
func NewFlashToken(secret string, f Flash, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"cat": f.Category,
		"msg": f.Message,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseFlashToken verifies raw and extracts the flash it carries.
func ParseFlashToken(secret, raw string) (Flash, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidFlash
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Flash{}, ErrInvalidFlash
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Flash{}, ErrInvalidFlash
	}
	cat, _ := claims["cat"].(string)
	msg, _ := claims["msg"].(string)
	if msg == "" {
		return Flash{}, ErrInvalidFlash
	}
	return Flash{Category: cat, Message: msg}, nil
}

// RandomHex returns a hex string generated from n bytes of
// cryptographically secure random data.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
