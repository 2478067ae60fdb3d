package render

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"codeberg.org/snonux/lingocard/internal/anki"
	"codeberg.org/snonux/lingocard/internal/classify"
	"codeberg.org/snonux/lingocard/internal/lookup"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestResultDictionary(t *testing.T) {
	res := &lookup.Result{
		Kind: lookup.KindDictionary,
		Dictionary: &lookup.Dictionary{
			Word:        "hello",
			Phonetic:    "/həˈləʊ/",
			Definitions: []lookup.Definition{{PartOfSpeech: "int", Text: "你好"}, {Text: "喂"}},
			Examples:    []string{"Hello, world."},
		},
		Source:     "local",
		Provenance: lookup.ProvenanceLocal,
	}

	want := "[单词 (英文)] hello\n" +
		"音标: /həˈləʊ/\n" +
		"释义:\n  1. (int) 你好\n  2. 喂\n" +
		"例句:\n  - Hello, world.\n" +
		"来源: local (local)\n"
	assert.Equal(t, want, Result("hello", classify.EnglishWord, res))
}

func TestResultTranslation(t *testing.T) {
	res := &lookup.Result{
		Kind: lookup.KindTranslation,
		Translation: &lookup.Translation{
			Original: "学习", Translated: "study",
			Source: language.Chinese, Target: language.English,
		},
		Source:     "google",
		Provenance: lookup.ProvenanceOnline,
	}

	out := Result("学习", classify.ChineseWord, res)
	assert.Contains(t, out, "[词汇 (中文)] 学习")
	assert.Contains(t, out, "翻译: study\n(中文 → 英文)")
	assert.NotContains(t, out, anki.DegradedNotice)
}

func TestResultDegradedCarriesCaveat(t *testing.T) {
	res := &lookup.Result{
		Kind:        lookup.KindDictionary,
		Dictionary:  &lookup.Dictionary{Word: "zyzzyva", Gloss: "象鼻虫"},
		Translation: &lookup.Translation{Original: "zyzzyva", Translated: "象鼻虫", Source: language.English, Target: language.Chinese},
		Source:      "mymemory",
		Provenance:  lookup.ProvenanceFallback,
	}

	out := Result("zyzzyva", classify.EnglishWord, res)
	assert.Contains(t, out, "翻译: 象鼻虫")
	assert.Contains(t, out, anki.DegradedNotice)
}

func TestAttempts(t *testing.T) {
	out := Attempts([]lookup.Attempt{
		{Source: "wordnik", Err: errors.New("timeout")},
		{Source: "freedict", Elapsed: 120 * time.Millisecond},
	})
	assert.Equal(t, "  ✗ wordnik: timeout\n  ✓ freedict (120ms)\n", out)
}

func TestError(t *testing.T) {
	assert.Equal(t, "请输入要查询的内容\n", Error("", lookup.ErrEmptyInput))

	exhausted := &lookup.ExhaustedError{
		Input:    "hello",
		Attempts: []lookup.Attempt{{Source: "mymemory", Err: errors.New("down")}},
	}
	out := Error("hello", fmt.Errorf("translate: %w", exhausted))
	assert.Contains(t, out, "所有服务均不可用: hello")
	assert.Contains(t, out, "✗ mymemory: down")

	assert.Equal(t, "查询失败: boom\n", Error("x", errors.New("boom")))
}
