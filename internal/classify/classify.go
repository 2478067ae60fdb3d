package classify

import (
	"regexp"
	"strings"
	"unicode"
)

// Category is the kind of input text.
type Category int

const (
	Empty Category = iota
	ChineseWord
	ChineseSentence
	EnglishWord
	EnglishPhrase
	EnglishSentence
)

var (
	hanPattern         = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	punctuationPattern = regexp.MustCompile(`[.!?;:,，。！？；：]`)
)

// Classify returns the category of text. Leading and trailing whitespace
// is ignored.
func Classify(text string) Category {
	text = strings.TrimSpace(text)
	if text == "" {
		return Empty
	}

	tokens := len(strings.Fields(text))
	punctuated := punctuationPattern.MatchString(text)

	if hanPattern.MatchString(text) {
		if tokens <= 2 && !punctuated {
			return ChineseWord
		}
		return ChineseSentence
	}

	switch {
	case tokens == 1 && !punctuated && isAlphabetic(text):
		return EnglishWord
	case tokens <= 3 && !punctuated:
		return EnglishPhrase
	default:
		return EnglishSentence
	}
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// String returns the machine name of the category.
func (c Category) String() string {
	switch c {
	case ChineseWord:
		return "chinese_word"
	case ChineseSentence:
		return "chinese_sentence"
	case EnglishWord:
		return "english_word"
	case EnglishPhrase:
		return "english_phrase"
	case EnglishSentence:
		return "english_sentence"
	default:
		return "empty"
	}
}

// Label returns the label shown to the user, e.g. "单词 (英文)".
func (c Category) Label() string {
	switch c {
	case ChineseWord:
		return "词汇 (中文)"
	case ChineseSentence:
		return "句子 (中文)"
	case EnglishWord:
		return "单词 (英文)"
	case EnglishPhrase:
		return "短语 (英文)"
	case EnglishSentence:
		return "句子 (英文)"
	default:
		return "未知"
	}
}

// IsChinese reports whether the category holds Chinese text.
func (c Category) IsChinese() bool {
	return c == ChineseWord || c == ChineseSentence
}

// Route is the resolution strategy for a category.
type Route int

const (
	RouteNone Route = iota
	RouteDictionary
	// RouteTranslateToNative translates foreign text into the native language.
	RouteTranslateToNative
	// RouteTranslateToForeign translates native text into the foreign language.
	RouteTranslateToForeign
)

// Route returns how text of category c is resolved.
func (c Category) Route() Route {
	switch c {
	case EnglishWord:
		return RouteDictionary
	case EnglishPhrase, EnglishSentence:
		return RouteTranslateToNative
	case ChineseWord, ChineseSentence:
		return RouteTranslateToForeign
	default:
		return RouteNone
	}
}

func (r Route) String() string {
	switch r {
	case RouteDictionary:
		return "dictionary"
	case RouteTranslateToNative:
		return "translate-to-native"
	case RouteTranslateToForeign:
		return "translate-to-foreign"
	default:
		return "none"
	}
}
