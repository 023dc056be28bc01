package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "gymstore/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"conflict", apperrors.Conflict("This time slot is already booked"), http.StatusConflict, "This time slot is already booked"},
		{"not found", apperrors.NotFound("Order"), http.StatusNotFound, "Order not found"},
		{"forbidden", apperrors.Forbidden("Not allowed"), http.StatusForbidden, "Not allowed"},
		{"validation", apperrors.Validation("Validation failed", nil), http.StatusUnprocessableEntity, "Validation failed"},
		{"bad gateway", apperrors.BadGateway("Payment gateway", fmt.Errorf("boom")), http.StatusBadGateway, "Payment gateway request failed"},
		{"wrapped app error", fmt.Errorf("ctx: %w", apperrors.InvalidInput("bad")), http.StatusBadRequest, "bad"},
		{"plain error", fmt.Errorf("secret driver detail"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestWriteError_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.Conflict("This time slot is already booked").WithDetails(map[string]any{
		"existing_booking": map[string]any{"id": "b1"},
	})
	_ = WriteError(rec, err)

	if !strings.Contains(rec.Body.String(), `"existing_booking":{"id":"b1"}`) {
		t.Errorf("details missing from body: %s", rec.Body.String())
	}
}

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{"defaults", "", 10, 0, false},
		{"explicit", "limit=5&offset=20", 5, 20, false},
		{"negative offset clamps", "offset=-3", 10, 0, false},
		{"limit capped", "limit=100000", 100, 0, false},
		{"bad limit", "limit=abc", 0, 0, true},
		{"bad offset", "offset=x", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/order/place", nil)
	r.Header.Set("Origin", "https://shop.example.com")
	if got := Origin(r); got != "https://shop.example.com" {
		t.Errorf("Origin() = %q", got)
	}

	r = httptest.NewRequest(http.MethodPost, "http://api.local/api/order/place", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	if got := Origin(r); got != "https://api.local" {
		t.Errorf("Origin() = %q", got)
	}
}
