package match

import (
	"fmt"
	"strings"
)

// Mode — политика комбинирования правил.
type Mode string

const (
	ModeAny Mode = "any" // достаточно одного совпадения
	ModeAll Mode = "all" // должны совпасть все правила
)

// ParseMode — разбирает строку режима из CLI/конфига.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAny:
		return ModeAny, nil
	case ModeAll:
		return ModeAll, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (expected any|all)", s)
	}
}

// Config — неизменяемый набор правил для одного запуска.
type Config struct {
	Terms      []string
	Mode       Mode
	IgnoreCase bool
}

// Matcher — чистая функция-вычислитель над подготовленными правилами.
// Паттерны нормализуются один раз в конструкторе, Evaluate безопасен
// для конкурентных вызовов из нескольких воркеров.
type Matcher struct {
	terms      []string
	mode       Mode
	ignoreCase bool
}

// New — конструктор. Нормализует паттерны по регистру заранее.
func New(cfg Config) (*Matcher, error) {
	if cfg.Mode != ModeAny && cfg.Mode != ModeAll {
		return nil, fmt.Errorf("unknown match mode %q (expected any|all)", cfg.Mode)
	}

	terms := make([]string, 0, len(cfg.Terms))
	for _, t := range cfg.Terms {
		terms = append(terms, normalize(t, cfg.IgnoreCase))
	}

	return &Matcher{
		terms:      terms,
		mode:       cfg.Mode,
		ignoreCase: cfg.IgnoreCase,
	}, nil
}

// Evaluate — true, если тело сообщения совпадает с правилами.
// Пустой набор правил: any не совпадает ни с чем, all совпадает со всем
// (вакуумная истина).
func (m *Matcher) Evaluate(body string) bool {
	candidate := normalize(body, m.ignoreCase)

	if m.mode == ModeAll {
		for _, t := range m.terms {
			if !strings.Contains(candidate, t) {
				return false
			}
		}
		return true
	}

	for _, t := range m.terms {
		if strings.Contains(candidate, t) {
			return true
		}
	}
	return false
}

// normalize — приведение к нижнему регистру с учётом Unicode,
// а не побайтово.
func normalize(s string, ignoreCase bool) string {
	if !ignoreCase {
		return s
	}
	return strings.ToLower(s)
}
