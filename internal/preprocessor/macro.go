package preprocessor

import (
	"fmt"
	"strings"
)

// ---------------- Macro table ----------------

// Macro is a parsed `.macro name = (params): { body }` definition.
type Macro struct {
	Name   string
	Params []string
	Body   string
}

// Expand renders the body with every [p] placeholder of a declared parameter
// replaced by the matching argument. Replacement happens in a single pass, so
// argument text is never rescanned for placeholders.
func (m *Macro) Expand(args []string) (string, error) {
	if len(args) != len(m.Params) {
		return "", &ArityMismatchError{Name: m.Name, Expected: len(m.Params), Got: len(args)}
	}
	if len(m.Params) == 0 {
		return m.Body, nil
	}
	oldnew := make([]string, 0, 2*len(m.Params))
	for i, p := range m.Params {
		oldnew = append(oldnew, "["+p+"]", args[i])
	}
	return strings.NewReplacer(oldnew...).Replace(m.Body), nil
}

func (m *Macro) String() string {
	return fmt.Sprintf(".macro %s = (%s): { %s }", m.Name, strings.Join(m.Params, ", "), m.Body)
}

// MacroTable maps names to definitions for a single preprocessing run.
type MacroTable struct {
	byName map[string]*Macro
	order  []*Macro
}

func NewMacroTable() *MacroTable {
	return &MacroTable{byName: map[string]*Macro{}}
}

func (t *MacroTable) Define(m *Macro) error {
	if _, ok := t.byName[m.Name]; ok {
		return &DuplicateMacroError{Name: m.Name}
	}
	t.byName[m.Name] = m
	t.order = append(t.order, m)
	return nil
}

func (t *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := t.byName[name]
	return m, ok
}

func (t *MacroTable) Len() int { return len(t.order) }

// Macros returns the definitions in the order they were found.
func (t *MacroTable) Macros() []*Macro {
	return append([]*Macro(nil), t.order...)
}

// ---------------- Definitions ----------------

// collectMacros registers every .macro definition in src and returns the
// text with the definitions removed. Nothing is expanded here.
func collectMacros(src string, table *MacroTable) (string, error) {
	var b strings.Builder
	last := 0
	l := newLexer(src, 0)
	for t := l.next(); t.kind != tokEOF; t = l.next() {
		if !t.isDirective(".macro") {
			continue
		}
		m, end, err := parseMacroDefinition(src, t)
		if err != nil {
			return "", err
		}
		if err := table.Define(m); err != nil {
			return "", err
		}
		log.Debugf("defined macro %s(%s)", m.Name, strings.Join(m.Params, ", "))

		b.WriteString(src[last:t.start])
		last = end
		l.pos = end
	}
	if last == 0 {
		return src, nil
	}
	b.WriteString(src[last:])
	return b.String(), nil
}

// parseMacroDefinition parses the definition whose .macro keyword is kw and
// returns it with the offset just past its closing brace.
func parseMacroDefinition(src string, kw token) (*Macro, int, error) {
	l := newLexer(src, kw.end)
	fail := func(t token, format string, args ...interface{}) (*Macro, int, error) {
		return nil, 0, &SyntaxError{Directive: kw.text, Offset: t.start, Msg: fmt.Sprintf(format, args...)}
	}

	t := l.nextSignificant()
	if t.kind != tokIdent || !isLower(t.text[0]) {
		return fail(t, "expected macro name starting with a lowercase letter, found %q", t.text)
	}
	m := &Macro{Name: t.text, Params: []string{}}

	if t = l.nextSignificant(); !t.isPunct("=") {
		return fail(t, "expected '=' after macro name %s, found %q", m.Name, t.text)
	}
	if t = l.nextSignificant(); !t.isPunct("(") {
		return fail(t, "expected '(' to open parameter list of %s, found %q", m.Name, t.text)
	}

	t = l.nextSignificant()
	for !t.isPunct(")") {
		if t.kind != tokIdent || len(t.text) != 1 || !isLetter(t.text[0]) {
			return fail(t, "parameters of %s must be single letters, found %q", m.Name, t.text)
		}
		for _, p := range m.Params {
			if p == t.text {
				return nil, 0, &DuplicateMacroError{Name: m.Name, Param: p}
			}
		}
		m.Params = append(m.Params, t.text)

		t = l.nextSignificant()
		if t.isPunct(",") {
			t = l.nextSignificant()
		} else if !t.isPunct(")") {
			return fail(t, "expected ',' or ')' in parameter list of %s, found %q", m.Name, t.text)
		}
	}

	if t = l.nextSignificant(); !t.isPunct(":") {
		return fail(t, "expected ':' after parameter list of %s, found %q", m.Name, t.text)
	}
	open := l.nextSignificant()
	if !open.isPunct("{") {
		return fail(open, "expected '{' to open body of %s, found %q", m.Name, open.text)
	}

	end, ok := scanBraceEnd(src, open.start)
	if !ok {
		return fail(open, "unterminated body of %s", m.Name)
	}
	m.Body = strings.TrimSpace(src[open.end : end-1])
	return m, end, nil
}

// scanBraceEnd returns the offset just past the brace closing the one at
// src[open]. The body is raw text: only braces inside string literals are
// skipped, so a ';' does not hide the closing brace.
func scanBraceEnd(src string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); {
		switch src[i] {
		case '"', '\'':
			i = scanStringEnd(src, i)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
		i++
	}
	return 0, false
}
