package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
)

// parseCookieHeader turns a raw Cookie header into a name -> value map.
// Values are percent-decoded the way the issuing middleware encodes them.
func parseCookieHeader(header string) map[string]string {
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		val := c.Value
		if strings.Contains(val, "%") {
			if dec, err := url.QueryUnescape(val); err == nil {
				val = dec
			}
		}
		out[c.Name] = val
	}
	return out
}

// Unsign verifies a signed session cookie value of the form
// "s:<sessionId>.<signature>" and returns the raw session id. The signature
// is base64(HMAC-SHA256(secret, sessionId)) with "=" padding stripped — the
// derivation the HTTP session middleware uses at issuance, which covers the
// session id only, not the "s:" prefix.
func Unsign(value, secret string) (string, bool) {
	raw, ok := strings.CutPrefix(value, "s:")
	if !ok {
		return "", false
	}
	dot := strings.LastIndexByte(raw, '.')
	if dot < 0 {
		return "", false
	}
	sid, sig := raw[:dot], raw[dot+1:]
	if sid == "" || sig == "" {
		return "", false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sid))
	want := strings.TrimRight(base64.StdEncoding.EncodeToString(mac.Sum(nil)), "=")

	if !hmac.Equal([]byte(want), []byte(sig)) {
		return "", false
	}
	return sid, true
}

// Sign produces a signed cookie value for a session id. The hub only
// verifies; signing lives here so tests and tooling can mint valid cookies.
func Sign(sid, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sid))
	sig := strings.TrimRight(base64.StdEncoding.EncodeToString(mac.Sum(nil)), "=")
	return "s:" + sid + "." + sig
}
