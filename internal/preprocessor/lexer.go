package preprocessor

// ---------------- Lexer ----------------

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokSpace
	tokNewline
	tokIdent
	tokNumber
	tokDirective // '.' immediately followed by an identifier: .include, .macro, .end
	tokString // "..." or a '...' character literal
	tokComment
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "EOF"
	case tokSpace:
		return "space"
	case tokNewline:
		return "newline"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokDirective:
		return "directive"
	case tokString:
		return "string"
	case tokComment:
		return "comment"
	default:
		return "punct"
	}
}

// token is a classified span of the source. Stages never rebuild text from
// tokens; they only use start/end to slice and splice the source text.
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

type lexer struct {
	src string
	pos int
}

func newLexer(src string, pos int) *lexer {
	return &lexer{src: src, pos: pos}
}

func (l *lexer) next() token {
	start := l.pos
	if start >= len(l.src) {
		return token{kind: tokEOF, start: start, end: start}
	}

	var kind tokenKind
	ch := l.src[start]
	switch {
	case isBlank(ch):
		for l.pos < len(l.src) && isBlank(l.src[l.pos]) {
			l.pos++
		}
		kind = tokSpace
	case ch == '\n':
		l.pos++
		kind = tokNewline
	case ch == ';':
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		kind = tokComment
	case ch == '"' || ch == '\'':
		l.pos = scanStringEnd(l.src, start)
		kind = tokString
	case ch == '.' && start+1 < len(l.src) && isIdentStart(l.src[start+1]) &&
		(start == 0 || !isIdentPart(l.src[start-1])):
		l.pos = scanIdentEnd(l.src, start+1)
		kind = tokDirective
	case isIdentStart(ch):
		l.pos = scanIdentEnd(l.src, start)
		kind = tokIdent
	case isDigit(ch):
		l.pos = scanIdentEnd(l.src, start)
		kind = tokNumber
	default:
		l.pos++
		kind = tokPunct
	}
	return token{kind: kind, text: l.src[start:l.pos], start: start, end: l.pos}
}

// nextSignificant skips blanks and newlines.
func (l *lexer) nextSignificant() token {
	for {
		t := l.next()
		if t.kind != tokSpace && t.kind != tokNewline {
			return t
		}
	}
}

func (t token) isPunct(s string) bool {
	return t.kind == tokPunct && t.text == s
}

func (t token) isDirective(name string) bool {
	return t.kind == tokDirective && t.text == name
}

// scanStringEnd returns the offset just past the string literal starting at
// src[i]. An unterminated literal stops before the end of its line.
func scanStringEnd(src string, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return len(src)
}

func stringTerminated(text string) bool {
	if len(text) < 2 || text[len(text)-1] != '"' {
		return false
	}
	// a trailing quote that is itself escaped does not close the literal
	n := 0
	for i := len(text) - 2; i > 0 && text[i] == '\\'; i-- {
		n++
	}
	return n%2 == 0
}

func scanIdentEnd(src string, i int) int {
	for i < len(src) && isIdentPart(src[i]) {
		i++
	}
	return i
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func isLetter(b byte) bool {
	return isLower(b) || (b >= 'A' && b <= 'Z')
}

func isIdentStart(b byte) bool {
	return b == '_' || isLetter(b)
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
