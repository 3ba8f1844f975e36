package preprocessor

import "strings"

// ---------------- Expansion ----------------

// expandMacros replaces every invocation in src with its rendered body.
func (r *run) expandMacros(src string) (string, error) {
	return r.expand(src, nil)
}

// expand replaces invocations leftmost first. Arguments are expanded in the
// caller's context before substitution; the rendered body is expanded again
// with its macro marked active, so bodies may invoke other macros but never
// one that is still being expanded. A body that ends in a name directly
// followed by '(' in src is rescanned together with that text.
func (r *run) expand(src string, active []string) (string, error) {
	var b strings.Builder
	last, spliced := 0, false
	l := newLexer(src, 0)
	for t := l.next(); t.kind != tokEOF; t = l.next() {
		if t.kind != tokIdent || !isLower(t.text[0]) || t.end >= len(src) || src[t.end] != '(' {
			continue
		}
		args, end, ok := scanArgs(src, t.end)
		if !ok {
			continue
		}
		body, err := r.invoke(t.text, args, active)
		if err != nil {
			return "", err
		}
		b.WriteString(src[last:t.start])
		spliced = true

		if tail := trailingName(body); tail != "" && end < len(src) && src[end] == '(' {
			b.WriteString(body[:len(body)-len(tail)])
			src = tail + src[end:]
			last = 0
			l = newLexer(src, 0)
			continue
		}
		b.WriteString(body)
		last = end
		l.pos = end
	}
	if !spliced {
		return src, nil
	}
	b.WriteString(src[last:])
	return b.String(), nil
}

// trailingName returns the identifier s ends with, if its last token is one.
func trailingName(s string) string {
	var last token
	l := newLexer(s, 0)
	for t := l.next(); t.kind != tokEOF; t = l.next() {
		last = t
	}
	if last.kind != tokIdent || last.end != len(s) {
		return ""
	}
	return last.text
}

func (r *run) invoke(name string, args []string, active []string) (string, error) {
	for _, a := range active {
		if a == name {
			chain := append(append([]string(nil), active...), name)
			return "", &MacroRecursionError{Name: name, Chain: chain}
		}
	}
	m, ok := r.macros.Lookup(name)
	if !ok {
		return "", &UndefinedMacroError{Name: name}
	}

	expanded := make([]string, len(args))
	for i, arg := range args {
		var err error
		if expanded[i], err = r.expand(arg, active); err != nil {
			return "", err
		}
	}
	body, err := m.Expand(expanded)
	if err != nil {
		return "", err
	}
	log.Debugf("expanding %s(%s)", name, strings.Join(expanded, ", "))

	return r.expand(body, append(active[:len(active):len(active)], name))
}

// scanArgs splits the argument list whose '(' is at src[open] on top-level
// commas. Nested parentheses, string literals and comments stay inside their
// argument. An empty or blank list yields no arguments.
func scanArgs(src string, open int) (args []string, end int, ok bool) {
	l := newLexer(src, open+1)
	depth, from := 1, open+1
	for t := l.next(); t.kind != tokEOF; t = l.next() {
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				args = append(args, strings.TrimSpace(src[from:t.start]))
				if len(args) == 1 && args[0] == "" {
					args = nil
				}
				return args, t.end, true
			}
		case ",":
			if depth == 1 {
				args = append(args, strings.TrimSpace(src[from:t.start]))
				from = t.end
			}
		}
	}
	return nil, 0, false
}
