package lookup

import "strings"

// Phrasebook maps lowercased text to a canned translation. It answers
// when every translation source failed.
type Phrasebook map[string]string

// DefaultPhrasebook returns the built-in greetings table.
func DefaultPhrasebook() Phrasebook {
	return Phrasebook{
		"hello":        "你好",
		"world":        "世界",
		"how are you":  "你好吗",
		"thank you":    "谢谢",
		"good morning": "早上好",
		"good night":   "晚安",
		"你好":           "hello",
		"世界":           "world",
		"谢谢":           "thank you",
		"早上好":          "good morning",
		"晚安":           "good night",
	}
}

// Lookup returns the canned translation of text, if any.
func (p Phrasebook) Lookup(text string) (string, bool) {
	out, ok := p[strings.ToLower(strings.TrimSpace(text))]
	return out, ok
}
