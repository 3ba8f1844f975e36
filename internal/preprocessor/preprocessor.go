// Package preprocessor resolves .include directives, collects .macro
// definitions, expands macro invocations and truncates the result after the
// .end terminator, in that order. The assembly language itself is opaque to
// it: everything is structural text substitution.
package preprocessor

import (
	"io"

	"github.com/op/go-logging"
)

const (
	DefaultTerminator      = ".end"
	DefaultMaxIncludeDepth = 64
)

var log = logging.MustGetLogger("asmpp")

// Library callers get warnings only; installing a backend with
// logging.SetBackend resets this.
func init() {
	logging.SetLevel(logging.WARNING, "asmpp")
}

// ---------------- Preprocessor ----------------

// Preprocessor holds settings only; every run builds its own macro table and
// include stack, so one Preprocessor may serve concurrent runs.
type Preprocessor struct {
	IncludeDirs     []string
	Terminator      string
	MaxIncludeDepth int
}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		Terminator:      DefaultTerminator,
		MaxIncludeDepth: DefaultMaxIncludeDepth,
	}
}

func (p *Preprocessor) terminator() string {
	if p.Terminator == "" {
		return DefaultTerminator
	}
	return p.Terminator
}

func (p *Preprocessor) maxIncludeDepth() int {
	if p.MaxIncludeDepth <= 0 {
		return DefaultMaxIncludeDepth
	}
	return p.MaxIncludeDepth
}

// run is the state of a single preprocessing invocation.
type run struct {
	p        *Preprocessor
	macros   *MacroTable
	includes []includeFrame
	depth    int
}

func (p *Preprocessor) newRun(entryPath string) *run {
	r := &run{p: p, macros: NewMacroTable()}
	if entryPath != "" {
		r.includes = append(r.includes, includeFrame{key: includeKey(entryPath), path: entryPath})
	}
	return r
}

// Process reads the entry file contents from r and writes the preprocessed
// text to w. entryPath is only used to detect include recursion.
func (p *Preprocessor) Process(entryPath string, r io.Reader, w io.Writer) error {
	bs, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	out, err := p.ProcessString(string(bs), entryPath)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// ProcessString runs the full pipeline over src.
func (p *Preprocessor) ProcessString(src, entryPath string) (string, error) {
	r := p.newRun(entryPath)
	src, err := r.define(src)
	if err != nil {
		return "", err
	}
	if src, err = r.expandMacros(src); err != nil {
		return "", err
	}
	return truncateAtTerminator(src, p.terminator())
}

// Definitions resolves includes and returns the macro table src defines,
// without expanding anything.
func (p *Preprocessor) Definitions(src, entryPath string) (*MacroTable, error) {
	r := p.newRun(entryPath)
	if _, err := r.define(src); err != nil {
		return nil, err
	}
	return r.macros, nil
}

func (r *run) define(src string) (string, error) {
	src, err := r.resolveIncludes(src)
	if err != nil {
		return "", err
	}
	return collectMacros(src, r.macros)
}
