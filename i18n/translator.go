package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "expected", "actual" or "path").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"type_mismatch":          "expected {expected}, got {actual}",
		"enum_violation":         "value must be {expected}",
		"missing_required_field": "required {expected} is missing",
		"unknown_property":       "unknown property",
		"depth_exceeded":         "maximum depth exceeded ({expected})",
		"invalid_schema":         "schema node is missing",
		"parse_error":            "parse error",
		"duplicate_key":          "duplicate key",
		"truncated":              "input too large",
	},
	"ja": {
		"type_mismatch":          "型が不正です ({expected} を期待しましたが {actual} でした)",
		"enum_violation":         "許可されていない値です ({expected})",
		"missing_required_field": "必須プロパティが不足しています ({expected})",
		"unknown_property":       "未知のキーです",
		"depth_exceeded":         "ネストが深すぎます ({expected})",
		"invalid_schema":         "スキーマが不正です",
		"parse_error":            "解析エラー",
		"duplicate_key":          "キーが重複しています",
		"truncated":              "入力が大きすぎます",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
