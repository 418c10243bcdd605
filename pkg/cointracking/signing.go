package cointracking

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

const (
	headerKey  = "Key"
	headerSign = "Sign"
)

// Sign returns the lowercase hex HMAC-SHA512 of body keyed by secret. body
// must be the exact bytes put on the wire: form encoding order and escaping
// change the tag.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
