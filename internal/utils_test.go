package internal

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"hello", "hello"},
		{"good morning", "good_morning"},
		{"你好，世界", "你好_世界"},
		{"a/b\\c:d", "a_b_c_d"},
		{"well-known_word", "well-known_word"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeFilenameLimit(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("字", 80))
	if n := len([]rune(got)); n != 50 {
		t.Errorf("Expected 50 runes, got %d", n)
	}
}

func TestGenerateCardID(t *testing.T) {
	id := GenerateCardID("hello")
	parts := strings.Split(id, "_")
	if len(parts) != 2 {
		t.Fatalf("Expected two parts, got %q", id)
	}
	if parts[1] != "5d41402a" {
		t.Errorf("Expected md5 prefix 5d41402a, got %s", parts[1])
	}
}
