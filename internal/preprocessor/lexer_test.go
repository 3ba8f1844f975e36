package preprocessor

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// lexDrain renders the token stream as kind:text pairs.
func lexDrain(src string) string {
	var toks []string
	l := newLexer(src, 0)
	for t := l.next(); t.kind != tokEOF; t = l.next() {
		toks = append(toks, t.kind.String()+":"+t.text)
	}
	return strings.Join(toks, " ")
}

func TestLex(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
	}{
		{"empty", "", ""},
		{"directive", `.include "a.inc"`, `directive:.include space:  string:"a.inc"`},
		{"register suffix is not a directive", "z0.s", "identifier:z0 punct:. identifier:s"},
		{"number suffix is not a directive", "1.end", "number:1 punct:. identifier:end"},
		{"comment runs to end of line", "nop ; x(1)\n", "identifier:nop space:  comment:; x(1) newline:\n"},
		{"escaped quote", `"a\"b" c`, `string:"a\"b" space:  identifier:c`},
		{"character literal", "mov w0, ';' ; c", "identifier:mov space:  identifier:w0 punct:, space:  string:';' space:  comment:; c"},
		{"unterminated string stops at newline", "\"abc\nd", "string:\"abc newline:\n identifier:d"},
		{"invocation", "add(x, 0x1f)", "identifier:add punct:( identifier:x punct:, space:  number:0x1f punct:)"},
		{"brackets", "[a]", "punct:[ identifier:a punct:]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.output, lexDrain(tt.input)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexSpansCoverSource(t *testing.T) {
	src := ".macro add = (a, b): { [a] + [b] } ; sum\n\tadd(\"x\", y) ×\n.end"
	var b strings.Builder
	l := newLexer(src, 0)
	for tok := l.next(); tok.kind != tokEOF; tok = l.next() {
		if src[tok.start:tok.end] != tok.text {
			t.Fatalf("token %q does not match span %d:%d", tok.text, tok.start, tok.end)
		}
		b.WriteString(tok.text)
	}
	if diff := cmp.Diff(src, b.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStringTerminated(t *testing.T) {
	for s, want := range map[string]bool{
		`""`:      true,
		`"a"`:     true,
		`"a\\"`:   true,
		`"a\"`:    false,
		`"`:       false,
		`"abc`:    false,
		`"a\\\"`:  false,
		`"a\\\\"`: true,
	} {
		if got := stringTerminated(s); got != want {
			t.Errorf("stringTerminated(%s) = %v, want %v", s, got, want)
		}
	}
}
