package preprocessor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ---------------- Include resolution ----------------

type includeFrame struct {
	key  string
	path string
}

// resolveIncludes splices the contents of every .include directive into
// src, leftmost first. Included text is resolved before splicing, so the
// result is the same as repeatedly replacing the leftmost directive.
func (r *run) resolveIncludes(src string) (string, error) {
	var b strings.Builder
	last := 0
	l := newLexer(src, 0)
	for t := l.next(); t.kind != tokEOF; t = l.next() {
		if !t.isDirective(".include") {
			continue
		}
		path, end, err := parseIncludeDirective(src, t)
		if err != nil {
			return "", err
		}
		content, err := r.include(path)
		if err != nil {
			return "", err
		}
		b.WriteString(src[last:t.start])
		b.WriteString(content)
		last = end
		l.pos = end
	}
	if last == 0 {
		return src, nil
	}
	b.WriteString(src[last:])
	return b.String(), nil
}

// parseIncludeDirective reads `.include "path"` and an optional trailing
// comment on the same line. The returned end excludes the newline.
func parseIncludeDirective(src string, kw token) (path string, end int, err error) {
	l := newLexer(src, kw.end)
	t := l.next()
	if t.kind == tokSpace {
		t = l.next()
	}
	if t.kind != tokString || !stringTerminated(t.text) {
		return "", 0, &SyntaxError{Directive: kw.text, Offset: t.start, Msg: fmt.Sprintf("expected quoted path, found %q", t.text)}
	}
	path, end = t.text[1:len(t.text)-1], t.end

	if t = l.next(); t.kind == tokSpace {
		t = l.next()
	}
	if t.kind == tokComment {
		end = t.end
	}
	return path, end, nil
}

func (r *run) include(path string) (string, error) {
	if err := r.checkIncludeStack(path); err != nil {
		return "", err
	}
	if limit := r.p.maxIncludeDepth(); r.depth >= limit {
		return "", &IncludeRecursionError{Path: path, Limit: limit}
	}

	bs, resolved, err := r.p.readInclude(path)
	if err != nil {
		return "", err
	}
	if resolved != path {
		if err := r.checkIncludeStack(resolved); err != nil {
			return "", err
		}
	}
	log.Debugf("including %s (%d bytes)", resolved, len(bs))

	r.includes = append(r.includes, includeFrame{key: includeKey(resolved), path: path})
	r.depth++
	defer func() {
		r.includes = r.includes[:len(r.includes)-1]
		r.depth--
	}()

	return r.resolveIncludes(string(bs))
}

func (r *run) checkIncludeStack(path string) error {
	key := includeKey(path)
	for i, f := range r.includes {
		if f.key != key {
			continue
		}
		chain := make([]string, 0, len(r.includes)-i+1)
		for _, g := range r.includes[i:] {
			chain = append(chain, g.path)
		}
		return &IncludeRecursionError{Path: path, Chain: append(chain, path)}
	}
	return nil
}

// includeKey normalizes a path for recursion checks.
func includeKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (p *Preprocessor) readInclude(path string) ([]byte, string, error) {
	resolved, err := p.resolveAsFile(path)
	if err != nil {
		return nil, "", &IncludeIOError{Path: path, Err: err}
	}
	bs, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", &IncludeIOError{Path: path, Err: err}
	}
	return bs, resolved, nil
}

// resolveAsFile takes the path literally and falls back to the include
// directories only when nothing exists there.
func (p *Preprocessor) resolveAsFile(path string) (string, error) {
	st, err := os.Stat(path)
	if err == nil {
		if st.IsDir() {
			return "", fmt.Errorf("%s is a directory", path)
		}
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) || filepath.IsAbs(path) {
		return "", err
	}
	for _, dir := range p.IncludeDirs {
		cand := filepath.Join(dir, path)
		if fileExists(cand) {
			return cand, nil
		}
	}
	return "", err
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
