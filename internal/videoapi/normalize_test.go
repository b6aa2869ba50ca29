package videoapi

import (
	"errors"
	"testing"
)

func TestNormalizeDurationAcceptsIntegers(t *testing.T) {
	cases := map[string]string{
		"8":    "8",
		" 12 ": "12",
		"08":   "8",
		"4":    "4",
	}
	for input, want := range cases {
		got, err := NormalizeDuration(input)
		if err != nil {
			t.Fatalf("NormalizeDuration(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("NormalizeDuration(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeDurationRejectsBadInput(t *testing.T) {
	for _, input := range []string{"", "abc", "8.5", "0", "-3", "8s", "1e2"} {
		_, err := NormalizeDuration(input)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("NormalizeDuration(%q): expected ValidationError, got %v", input, err)
		}
		if verr.Field != "seconds" {
			t.Fatalf("NormalizeDuration(%q): field = %q, want seconds", input, verr.Field)
		}
	}
}

func TestNormalizeSizeAcceptsDigitsXDigits(t *testing.T) {
	for _, input := range []string{"1280x720", "720x1280", "1x1", " 1024x1792 "} {
		got, err := NormalizeSize(input)
		if err != nil {
			t.Fatalf("NormalizeSize(%q) returned error: %v", input, err)
		}
		if got == "" {
			t.Fatalf("NormalizeSize(%q) returned empty string", input)
		}
	}
}

func TestNormalizeSizeRejectsBadInput(t *testing.T) {
	for _, input := range []string{"", "1280", "1280x", "x720", "1280X720", "1280x720p", "wide", "12 80x720"} {
		_, err := NormalizeSize(input)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("NormalizeSize(%q): expected ValidationError, got %v", input, err)
		}
	}
}

func TestHashCredentialIsDeterministicSHA256Hex(t *testing.T) {
	got := HashCredential("opensesame")
	if len(got) != 64 {
		t.Fatalf("hash length = %d, want 64", len(got))
	}
	if got != HashCredential("opensesame") {
		t.Fatalf("hash is not deterministic")
	}
	if got == HashCredential("other") {
		t.Fatalf("distinct secrets must not collide in tests")
	}
}
