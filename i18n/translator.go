package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for issue codes.
// data provides optional values substituted into {name} placeholders (for
// example "min" or "max").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalogs = map[string]map[string]string{
	"en": {
		"required":       "Field is required",
		"invalid_type":   "Invalid value",
		"too_small":      "Must be at least {min}",
		"too_big":        "Must be at most {max}",
		"too_short":      "Must contain at least {min} characters",
		"too_long":       "Must contain at most {max} characters",
		"pattern":        "Invalid format",
		"invalid_enum":   "Select one of the allowed options",
		"invalid_format": "Invalid {format}",
		"invalid_date":   "Invalid date",
		"custom":         "Invalid input",
	},
	"ja": {
		"required":       "必須項目です",
		"invalid_type":   "値が不正です",
		"too_small":      "{min}以上で入力してください",
		"too_big":        "{max}以下で入力してください",
		"too_short":      "{min}文字以上で入力してください",
		"too_long":       "{max}文字以内で入力してください",
		"pattern":        "形式が不正です",
		"invalid_enum":   "選択肢から選んでください",
		"invalid_format": "{format}の形式が不正です",
		"invalid_date":   "日付が不正です",
		"custom":         "入力が不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalogs[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := catalogs[lang]; !ok {
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
// Unknown codes are returned as is.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
