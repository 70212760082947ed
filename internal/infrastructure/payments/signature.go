package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureVerifier authenticates Mercado Pago webhook deliveries.
//
// The x-signature header carries "ts=<unix>,v1=<hmac>"; the signed manifest
// is "id:<dataID>;request-id:<xRequestID>;ts:<ts>;" keyed with the shared
// webhook secret. Every failure mode (missing header, malformed parts,
// digest mismatch) collapses into the same false result so callers cannot be
// used as an oracle.
type SignatureVerifier struct {
	secret string
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: secret}
}

// Verify must run before any state mutation is attempted.
func (v *SignatureVerifier) Verify(dataID, xSignature, xRequestID string) bool {
	if v == nil || v.secret == "" {
		return false
	}
	dataID = strings.TrimSpace(dataID)
	xRequestID = strings.TrimSpace(xRequestID)
	if dataID == "" || xRequestID == "" {
		return false
	}

	ts, v1, ok := parseSignatureHeader(xSignature)
	if !ok {
		return false
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, xRequestID, ts)
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(v1)))
}

func parseSignatureHeader(header string) (ts, v1 string, ok bool) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	if ts == "" || v1 == "" {
		return "", "", false
	}
	return ts, v1, true
}
