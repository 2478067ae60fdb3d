package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const maxFilenameRunes = 50

// GenerateCardID creates a unique ID for a card based on timestamp and input text
// Format: epochMillis_md5(text)[:8]
func GenerateCardID(text string) string {
	epochMillis := time.Now().UnixMilli()

	hash := md5.Sum([]byte(text))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// SanitizeFilename creates a safe filename from a string. Letters of any
// script, digits, '-' and '_' are kept, everything else becomes '_', and
// the result is cut to 50 characters.
func SanitizeFilename(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == maxFilenameRunes {
			break
		}
		if isFilenameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
		n++
	}
	return b.String()
}

func isFilenameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}
