package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"already E.164", "+972541234567", "IN", "+972541234567"},
		{"with spaces", "+972 54 123 4567", "IN", "+972541234567"},
		{"with dashes", "+972-54-123-4567", "US", "+972541234567"},
		{"national number uses default region", "98765 43210", "IN", "+919876543210"},
		{"lowercase region", "98765 43210", "in", "+919876543210"},
		{"leading and trailing spaces", "  +919876543210  ", "IN", "+919876543210"},
		{"empty string", "", "IN", ""},
		{"only whitespace", "   ", "IN", ""},
		{"letters", "call me", "IN", ""},
		{"too short", "12", "IN", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input, tt.region); got != tt.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.input, tt.region, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("98765 43210", "IN")
	twice := NormalizePhone(once, "IN")
	if once != twice {
		t.Errorf("NormalizePhone not idempotent: %q then %q", once, twice)
	}
}

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Main   Gym ", "Main Gym"},
		{"pool", "pool"},
		{"18:00-19:00", "18:00-19:00"},
		{"\tSwimming\nPool ", "Swimming Pool"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := TrimAndNormalize(tt.input); got != tt.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeIdentifier_KeepsCase(t *testing.T) {
	if got := NormalizeIdentifier(" Pool "); got != "Pool" {
		t.Errorf("NormalizeIdentifier() = %q", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizeStringSlice(t *testing.T) {
	got := NormalizeStringSlice([]string{" M", "M", "", "L ", "  "}, TrimAndNormalize)
	want := []string{"M", "L"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeStringSlice() = %v, want %v", got, want)
	}

	if got := NormalizeStringSlice(nil, TrimAndNormalize); got == nil || len(got) != 0 {
		t.Errorf("NormalizeStringSlice(nil) = %v, want empty non-nil slice", got)
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-5, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		if got := ClampPercent(tt.in); got != tt.want {
			t.Errorf("ClampPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
