package pulsetrans

import (
	"strings"
	"testing"
)

func TestHashText(t *testing.T) {
	hash := HashText("Hello World")

	if len(hash) != 64 {
		t.Errorf("expected 64-char hex hash, got %d chars", len(hash))
	}

	// Same input produces same hash
	if HashText("Hello World") != hash {
		t.Error("hash should be deterministic")
	}

	// Different input produces different hash
	if HashText("Goodbye World") == hash {
		t.Error("different texts should have different hashes")
	}
}

func TestHashText_TrimsWhitespace(t *testing.T) {
	base := HashText("Hello")

	variants := []string{"  Hello", "Hello  ", "\n\tHello \n"}
	for _, v := range variants {
		if HashText(v) != base {
			t.Errorf("HashText(%q) should equal HashText(%q)", v, "Hello")
		}
	}
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("Hello", "uk")

	if !strings.HasSuffix(fp, ":uk") {
		t.Errorf("fingerprint %q should end with language code", fp)
	}

	// Stable across calls
	if Fingerprint("Hello", "uk") != fp {
		t.Error("fingerprint should be deterministic")
	}

	// Language is part of the key
	if Fingerprint("Hello", "es") == fp {
		t.Error("different target languages should have different fingerprints")
	}

	// Text is part of the key
	if Fingerprint("Goodbye", "uk") == fp {
		t.Error("different texts should have different fingerprints")
	}
}

func TestFingerprint_NormalizesLocale(t *testing.T) {
	base := Fingerprint("Hello", "uk")

	for _, code := range []string{"uk_UA", "uk-UA", "UK"} {
		if Fingerprint("Hello", code) != base {
			t.Errorf("Fingerprint with %q should match short code form", code)
		}
	}
}
