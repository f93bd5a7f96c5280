package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "index" or "name").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ru":
		switch code {
		case "out_of_bounds":
			msg = "чтение за пределами буфера"
		case "unknown_variant":
			msg = "неизвестный вариант {index}"
		case "unknown_fields":
			msg = "неизвестный тип полей структуры"
		case "invalid_json":
			msg = "некорректный встроенный JSON"
		case "missing_custom":
			msg = "не найден обработчик типа {name}"
		case "custom_failed":
			msg = "ошибка обработчика типа {name}"
		case "unhandled_scheme":
			msg = "необрабатываемая схема"
		case "max_depth":
			msg = "превышена максимальная глубина"
		case "invalid_scheme":
			msg = "некорректное описание схемы"
		}
	default: // "en"
		switch code {
		case "out_of_bounds":
			msg = "read past end of buffer"
		case "unknown_variant":
			msg = "unknown variant {index}"
		case "unknown_fields":
			msg = "unknown struct fields kind"
		case "invalid_json":
			msg = "malformed embedded json"
		case "missing_custom":
			msg = "no handler registered for custom type {name}"
		case "custom_failed":
			msg = "custom type {name} failed"
		case "unhandled_scheme":
			msg = "unhandled scheme"
		case "max_depth":
			msg = "max depth exceeded"
		case "invalid_scheme":
			msg = "invalid scheme descriptor"
		}
	}
	if msg == "" {
		return code
	}
	return expand(msg, data)
}

// expand substitutes {key} placeholders; unknown placeholders are dropped
// along with a leading space.
func expand(msg string, data map[string]string) string {
	if !strings.Contains(msg, "{") {
		return msg
	}
	b := &strings.Builder{}
	for {
		i := strings.IndexByte(msg, '{')
		if i < 0 {
			b.WriteString(msg)
			break
		}
		j := strings.IndexByte(msg[i:], '}')
		if j < 0 {
			b.WriteString(msg)
			break
		}
		key := msg[i+1 : i+j]
		if v, ok := data[key]; ok {
			b.WriteString(msg[:i])
			b.WriteString(v)
		} else {
			b.WriteString(strings.TrimSuffix(msg[:i], " "))
		}
		msg = msg[i+j+1:]
	}
	return b.String()
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ru").
func SetLanguage(lang string) {
	if lang != "ru" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
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
