package taxonomy

import (
	"slices"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "unsupported shape", input: 42, want: ""},
		{name: "map is unsupported", input: map[string]any{"a": 1}, want: ""},
		{name: "empty string", input: "", want: ""},
		{name: "single string split on commas", input: "Go, Rust ,go", want: "go,rust"},
		{name: "internal whitespace becomes hyphen", input: "machine   learning", want: "machine-learning"},
		{name: "tabs and newlines collapse", input: []string{"a\t \nb"}, want: "a-b"},
		{name: "commas inside sequence element", input: []string{"a,,b"}, want: "a-b"},
		{name: "mixed comma and space run", input: []any{"a , b"}, want: "a-b"},
		{name: "empty tokens dropped", input: " , ,x,, ", want: "x"},
		{name: "sequence of any", input: []any{"Work", nil, 2024.0, "work"}, want: "work,2024"},
		{name: "float element", input: []any{1.5}, want: "1.5"},
		{name: "bool element coerced", input: []any{true}, want: "true"},
		{name: "first occurrence order", input: []string{"b", "a", "B"}, want: "b,a"},
		{name: "unicode lowercased", input: "ЗАМЕТКИ", want: "заметки"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%#v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTruncates(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := Normalize(long)
	if utf8.RuneCountInString(got) != MaxTagLength {
		t.Fatalf("len = %d, want %d", utf8.RuneCountInString(got), MaxTagLength)
	}

	// Truncation counts characters, not bytes.
	cyr := strings.Repeat("я", 45)
	got = Normalize(cyr)
	if utf8.RuneCountInString(got) != MaxTagLength || !utf8.ValidString(got) {
		t.Fatalf("cyrillic truncation broken: %q", got)
	}

	// Two inputs that only differ past the limit collapse into one tag.
	a := strings.Repeat("k", 40) + "-one"
	b := strings.Repeat("k", 40) + "-two"
	if got := Normalize([]string{a, b}); got != strings.Repeat("k", 40) {
		t.Errorf("Normalize() = %q, want a single truncated tag", got)
	}
}

var normalizeCorpus = []any{
	"",
	"a,b,c",
	"  Hello World , hello world,HELLO-WORLD",
	[]string{"x y", "x,y", "X  Y", " "},
	[]any{"Go", 1.0, nil, "go ", "\tgo\n"},
	strings.Repeat("ab ", 30),
	[]string{strings.Repeat("é", 50), "Ü", "ü"},
	",,, , ,",
	[]string{",lead", "trail,", "-dash-"},
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range normalizeCorpus {
		once := Normalize(in)
		twice := Normalize(strings.Split(once, Separator))
		if once != twice {
			t.Errorf("not idempotent for %#v: %q then %q", in, once, twice)
		}
		// Feeding the stored form back as a single string must agree too.
		if again := Normalize(once); again != once {
			t.Errorf("string round trip for %#v: %q then %q", in, once, again)
		}
	}
}

func TestNormalizeCanonicalInvariants(t *testing.T) {
	for _, in := range normalizeCorpus {
		out := Normalize(in)
		if out == "" {
			continue
		}
		seen := map[string]bool{}
		for _, tok := range strings.Split(out, Separator) {
			if tok == "" {
				t.Errorf("%#v: empty token in %q", in, out)
			}
			if tok != strings.TrimSpace(tok) {
				t.Errorf("%#v: token %q has surrounding whitespace", in, tok)
			}
			if strings.IndexFunc(tok, unicode.IsUpper) >= 0 {
				t.Errorf("%#v: token %q has uppercase", in, tok)
			}
			if strings.IndexFunc(tok, unicode.IsSpace) >= 0 {
				t.Errorf("%#v: token %q has inner whitespace", in, tok)
			}
			if utf8.RuneCountInString(tok) > MaxTagLength {
				t.Errorf("%#v: token %q too long", in, tok)
			}
			if seen[tok] {
				t.Errorf("%#v: duplicate token %q", in, tok)
			}
			seen[tok] = true
		}
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		stored []string
		want   []string
	}{
		{name: "no records", stored: nil, want: []string{}},
		{name: "across three records", stored: []string{"a,b", "b,c", ""}, want: []string{"a", "b", "c"}},
		{name: "sorted lexicographically", stored: []string{"zeta", "alpha,mu"}, want: []string{"alpha", "mu", "zeta"}},
		{name: "empty tokens ignored", stored: []string{",a,,", ","}, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.stored)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Aggregate(%v) = %v, want %v", tt.stored, got, tt.want)
			}
		})
	}
}

func TestSplitAndHas(t *testing.T) {
	if got := Split(""); got != nil {
		t.Errorf("Split(\"\") = %v, want nil", got)
	}
	if got := Split("a,,b"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Split() = %v", got)
	}
	if !Has("go,rust", "rust") || Has("go,rust", "ru") {
		t.Error("Has() matched on substring or missed a tag")
	}
}
