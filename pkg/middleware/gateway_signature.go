package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"gymstore/pkg/logger"
)

const (
	MercadoPagoSignatureHeader = "X-Signature"
	MercadoPagoRequestIDHeader = "X-Request-Id"
)

// MercadoPagoSignature verifies the x-signature header Mercado Pago attaches
// to webhook notifications: v1 is the hex HMAC-SHA256 of the manifest
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;" keyed by the webhook
// secret. Manifest parts whose value is absent are left out. An empty secret
// rejects every request.
func MercadoPagoSignature(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				rejectWebhook(w, log, r, "Webhook secret not configured")
				return
			}

			ts, v1 := parseMercadoPagoSignature(r.Header.Get(MercadoPagoSignatureHeader))
			if ts == "" || v1 == "" {
				rejectWebhook(w, log, r, "Missing or malformed x-signature header")
				return
			}

			manifest := mercadoPagoManifest(r.URL.Query().Get("data.id"), r.Header.Get(MercadoPagoRequestIDHeader), ts)
			if !verifyHMAC(manifest, v1, secret) {
				rejectWebhook(w, log, r, "Invalid webhook signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseMercadoPagoSignature(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	return ts, v1
}

func mercadoPagoManifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		b.WriteString("id:" + strings.ToLower(dataID) + ";")
	}
	if requestID != "" {
		b.WriteString("request-id:" + requestID + ";")
	}
	b.WriteString("ts:" + ts + ";")
	return b.String()
}

func signHMAC(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func verifyHMAC(message, received, secret string) bool {
	return hmac.Equal([]byte(signHMAC(message, secret)), []byte(strings.ToLower(received)))
}

func rejectWebhook(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Gateway webhook verification failed",
		logger.REQUEST_ID, logger.RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)
	writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
}
