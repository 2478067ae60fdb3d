package lookup

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// shortNames are the labels used on cards for the common languages.
var shortNames = map[string]string{
	"en": "英文",
	"zh": "中文",
}

// LanguageName returns the English name of tag, e.g. "Chinese".
func LanguageName(tag language.Tag) string {
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

// LanguageLabel returns the Chinese label of tag, e.g. "英文".
func LanguageLabel(tag language.Tag) string {
	base, _ := tag.Base()
	if name, ok := shortNames[base.String()]; ok {
		return name
	}
	if name := display.Chinese.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

// ParseLanguage parses a BCP 47 tag such as "zh" or "en-GB".
func ParseLanguage(s string) (language.Tag, error) {
	return language.Parse(s)
}
