package match_test

import (
	"testing"

	"github.com/Gunvolt24/rmq_pruner/internal/match"
)

func mustMatcher(t *testing.T, cfg match.Config) *match.Matcher {
	t.Helper()
	m, err := match.New(cfg)
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	return m
}

func TestEvaluate_AnyMode(t *testing.T) {
	t.Parallel()

	m := mustMatcher(t, match.Config{
		Terms: []string{"foo", "bar"},
		Mode:  match.ModeAny,
	})

	cases := []struct {
		body string
		want bool
	}{
		{"foo-1", true},
		{"bar-2", true},
		{"baz-3", false},
		{"prefix foo suffix", true},
		{"", false},
		{"FOO", false}, // регистр учитывается
	}
	for _, tc := range cases {
		if got := m.Evaluate(tc.body); got != tc.want {
			t.Fatalf("Evaluate(%q): got=%v want=%v", tc.body, got, tc.want)
		}
	}
}

func TestEvaluate_AllMode(t *testing.T) {
	t.Parallel()

	m := mustMatcher(t, match.Config{
		Terms: []string{"foo", "bar"},
		Mode:  match.ModeAll,
	})

	cases := []struct {
		body string
		want bool
	}{
		{"foo bar", true},
		{"bar ... foo", true},
		{"foo-1", false},
		{"bar-2", false},
		{"baz", false},
	}
	for _, tc := range cases {
		if got := m.Evaluate(tc.body); got != tc.want {
			t.Fatalf("Evaluate(%q): got=%v want=%v", tc.body, got, tc.want)
		}
	}
}

func TestEvaluate_IgnoreCase_Unicode(t *testing.T) {
	t.Parallel()

	m := mustMatcher(t, match.Config{
		Terms:      []string{"ОШИБКА", "Error"},
		Mode:       match.ModeAny,
		IgnoreCase: true,
	})

	// Нормализация должна работать и для не-ASCII символов.
	if !m.Evaluate("в логе ошибка диска") {
		t.Fatalf("expected cyrillic case-insensitive match")
	}
	if !m.Evaluate("ERROR: disk full") {
		t.Fatalf("expected latin case-insensitive match")
	}
	if m.Evaluate("all good") {
		t.Fatalf("unexpected match")
	}
}

// Пустой набор правил: any не совпадает ни с чем, all совпадает со всем.
func TestEvaluate_NoTerms(t *testing.T) {
	t.Parallel()

	anyM := mustMatcher(t, match.Config{Mode: match.ModeAny})
	if anyM.Evaluate("whatever") {
		t.Fatalf("any with no terms must not match")
	}

	allM := mustMatcher(t, match.Config{Mode: match.ModeAll})
	if !allM.Evaluate("whatever") {
		t.Fatalf("all with no terms must match everything")
	}
}

func TestNew_UnknownMode(t *testing.T) {
	t.Parallel()

	if _, err := match.New(match.Config{Mode: "sometimes"}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	if m, err := match.ParseMode(" Any "); err != nil || m != match.ModeAny {
		t.Fatalf("ParseMode(any): got=%v err=%v", m, err)
	}
	if m, err := match.ParseMode("ALL"); err != nil || m != match.ModeAll {
		t.Fatalf("ParseMode(all): got=%v err=%v", m, err)
	}
	if _, err := match.ParseMode("none"); err == nil {
		t.Fatalf("expected error for unknown mode string")
	}
}
