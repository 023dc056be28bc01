package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gymstore/pkg/auth"
	"gymstore/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	const incoming = "7f1c9b84-6a39-4f55-9d4c-0d1f0c3f6a11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "<script>", seen)
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(okHandler())

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		want        int
	}{
		{"json post", http.MethodPost, "/api/booking", "application/json; charset=utf-8", `{}`, http.StatusOK},
		{"form post", http.MethodPost, "/api/booking", "application/x-www-form-urlencoded", `a=b`, http.StatusUnsupportedMediaType},
		{"empty body post", http.MethodPost, "/api/order/id/1/cancel", "", ``, http.StatusOK},
		{"get without type", http.MethodGet, "/api/product/list", "", ``, http.StatusOK},
		{"image upload", http.MethodPost, "/api/product/id/1/media", "image/png", `png`, http.StatusOK},
		{"video upload", http.MethodPost, "/api/product/id/1/media", "video/mp4", `mp4`, http.StatusOK},
		{"image outside media route", http.MethodPost, "/api/product/add", "image/png", `png`, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8, 64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/product/id/1/media", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	token, err := tokens.Issue("user-1", "user", "u@gym.com", "", 0)
	require.NoError(t, err)

	var claims *auth.Claims
	h := Authenticate(tokens, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = auth.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID())

	claims = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("token", token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, claims)

	claims = nil
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, claims)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := NewClientRateLimiter(2, time.Hour, func(r *http.Request) string {
		return r.Header.Get("X-Client")
	}, logger.Discard())
	defer limiter.Stop()

	h := RateLimit(limiter)(okHandler())

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client", client)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("a"))
	assert.Equal(t, http.StatusOK, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusOK, send("b"))
	assert.Equal(t, http.StatusOK, send(""))
}

func TestDefaultKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "ip:10.0.0.7", DefaultKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "ip:203.0.113.9", DefaultKeyExtractor(req))

	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{}))
	claims := auth.FromContext(req.Context())
	claims.Subject = "u42"
	assert.Equal(t, "user:u42", DefaultKeyExtractor(req))
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"o1"}}`))
	})
}

func runIdempotencyScenario(t *testing.T, store IdempotencyStore) {
	t.Helper()
	calls := 0
	h := Idempotency(store, logger.Discard())(countingHandler(&calls))

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/order/place", strings.NewReader(`{}`))
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send("k1")
	second := send("k1")
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	send("k2")
	send("")
	assert.Equal(t, 3, calls)
}

func TestIdempotency_InMemory(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()
	runIdempotencyScenario(t, store)
}

func TestIdempotency_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewRedisIdempotencyStore(rdb, time.Hour, logger.Discard())
	runIdempotencyScenario(t, store)

	keys := mr.Keys()
	require.Len(t, keys, 2)
	assert.True(t, strings.HasPrefix(keys[0], idempotencyKeyPrefix))
	ttl := mr.TTL(keys[0])
	assert.Equal(t, time.Hour, ttl)
}

func TestIdempotency_RedisDownIsCacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := NewRedisIdempotencyStore(rdb, time.Hour, logger.Discard())
	mr.Close()

	_, found := store.Get(context.Background(), "k")
	assert.False(t, found)
}

func TestIdempotency_ScopedPerCaller(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()
	calls := 0
	h := Idempotency(store, logger.Discard())(countingHandler(&calls))

	for _, user := range []string{"alice", "bob"} {
		req := httptest.NewRequest(http.MethodPost, "/api/order/place", strings.NewReader(`{}`))
		req.Header.Set(IdempotencyHeader, "same-key")
		c := &auth.Claims{}
		c.Subject = user
		req = req.WithContext(auth.WithClaims(req.Context(), c))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 2, calls)
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestMercadoPagoSignature(t *testing.T) {
	const secret = "webhook-secret"
	h := MercadoPagoSignature(secret, logger.Discard())(okHandler())

	sign := func(dataID, requestID, ts string) string {
		return "ts=" + ts + ",v1=" + signHMAC(mercadoPagoManifest(dataID, requestID, ts), secret)
	}

	tests := []struct {
		name      string
		signature string
		want      int
	}{
		{"valid", sign("123456", "req-1", "1704908010"), http.StatusOK},
		{"wrong secret", "ts=1704908010,v1=" + signHMAC(mercadoPagoManifest("123456", "req-1", "1704908010"), "other"), http.StatusUnauthorized},
		{"tampered ts", strings.Replace(sign("123456", "req-1", "1704908010"), "ts=1704908010", "ts=1704908011", 1), http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook/mercadopago?data.id=123456&type=payment", strings.NewReader(`{}`))
			req.Header.Set(MercadoPagoRequestIDHeader, "req-1")
			if tt.signature != "" {
				req.Header.Set(MercadoPagoSignatureHeader, tt.signature)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMercadoPagoSignature_EmptySecret(t *testing.T) {
	h := MercadoPagoSignature("", logger.Discard())(okHandler())

	ts := "1704908010"
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook/mercadopago?data.id=1", strings.NewReader(`{}`))
	req.Header.Set(MercadoPagoSignatureHeader, "ts="+ts+",v1="+signHMAC(mercadoPagoManifest("1", "", ts), ""))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMercadoPagoManifest(t *testing.T) {
	assert.Equal(t, "id:abc;request-id:r;ts:1;", mercadoPagoManifest("ABC", "r", "1"))
	assert.Equal(t, "ts:1;", mercadoPagoManifest("", "", "1"))
}
