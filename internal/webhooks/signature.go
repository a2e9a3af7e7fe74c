// Package webhooks implements the SendSeven webhook contract: signature
// verification over canonical JSON, the event type vocabulary, and the
// echo reply mapping.
package webhooks

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

const sigPrefix = "sha256="

// Verifier checks webhook signatures against a shared secret. The zero
// value (empty secret) means verification is disabled; callers decide how
// that mode is surfaced to operators.
type Verifier struct {
	Secret string
}

// Enabled reports whether a signing secret is configured.
func (v Verifier) Enabled() bool { return v.Secret != "" }

// Verify reports whether signature matches HMAC-SHA256 over
// timestamp + "." + canonical(body) under the shared secret. Any decode or
// canonicalization failure counts as a mismatch; Verify never errors.
func (v Verifier) Verify(body []byte, timestamp, signature string) bool {
	if timestamp == "" || !strings.HasPrefix(signature, sigPrefix) {
		return false
	}
	provided := signature[len(sigPrefix):]

	canonical, err := canonicalBody(body)
	if err != nil {
		return false
	}
	expected := Sign(v.Secret, timestamp, canonical)

	return hmac.Equal([]byte(expected), []byte(provided))
}

// SignatureFor canonicalizes body and returns the full signature header
// value for it. Used by test senders; the gateway itself only verifies.
func (v Verifier) SignatureFor(body []byte, timestamp string) (string, error) {
	canonical, err := canonicalBody(body)
	if err != nil {
		return "", err
	}
	return sigPrefix + Sign(v.Secret, timestamp, canonical), nil
}

// Sign returns the lowercase hex HMAC-SHA256 of timestamp + "." + canonical
// under secret. The canonical bytes must already be in sorted-key form.
func Sign(secret, timestamp string, canonical []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil))
}

func canonicalBody(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return MarshalCanonical(data)
}
