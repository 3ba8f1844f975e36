package preprocessor

import (
	"fmt"
	"strings"
)

// ---------------- Errors ----------------

// IncludeRecursionError reports an include directive that names the entry
// file or a file that is still being included. A non-zero Limit means the
// include depth limit was hit instead.
type IncludeRecursionError struct {
	Path  string
	Chain []string
	Limit int
}

func (e *IncludeRecursionError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("include depth limit %d exceeded at %q", e.Limit, e.Path)
	}
	if len(e.Chain) == 0 {
		return fmt.Sprintf("file include recursion is not supported: %q", e.Path)
	}
	return fmt.Sprintf("file include recursion is not supported: %s", strings.Join(e.Chain, " -> "))
}

// IncludeIOError wraps the failure to locate, open or size an included file.
type IncludeIOError struct {
	Path string
	Err  error
}

func (e *IncludeIOError) Error() string {
	return fmt.Sprintf("include %q: %v", e.Path, e.Err)
}

func (e *IncludeIOError) Unwrap() error { return e.Err }

// DuplicateMacroError is returned for a second definition of Name, or when
// Param is declared twice in the parameter list of Name.
type DuplicateMacroError struct {
	Name  string
	Param string
}

func (e *DuplicateMacroError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("macro %s declares parameter %s more than once", e.Name, e.Param)
	}
	return fmt.Sprintf("macro %s is multiply defined", e.Name)
}

type UndefinedMacroError struct {
	Name string
}

func (e *UndefinedMacroError) Error() string {
	return fmt.Sprintf("macro %s is undefined", e.Name)
}

type ArityMismatchError struct {
	Name     string
	Expected int
	Got      int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("invocation of macro %s had %d arguments, but expected %d", e.Name, e.Got, e.Expected)
}

// MacroRecursionError reports a macro invoked from within its own expansion.
// Chain lists the macros being expanded, outermost first, ending with Name.
type MacroRecursionError struct {
	Name  string
	Chain []string
}

func (e *MacroRecursionError) Error() string {
	return fmt.Sprintf("recursive invocation of macro %s (%s)", e.Name, strings.Join(e.Chain, " -> "))
}

type MissingTerminatorError struct {
	Terminator string
}

func (e *MissingTerminatorError) Error() string {
	return fmt.Sprintf("could not find viable end token %q", e.Terminator)
}

// SyntaxError reports a directive keyword whose operands do not parse.
type SyntaxError struct {
	Directive string
	Offset    int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed %s directive at offset %d: %s", e.Directive, e.Offset, e.Msg)
}
