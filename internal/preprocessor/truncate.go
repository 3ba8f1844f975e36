package preprocessor

import "strings"

// truncateAtTerminator keeps src up to and including the first terminator.
func truncateAtTerminator(src, terminator string) (string, error) {
	pos := strings.Index(src, terminator)
	if pos < 0 {
		return "", &MissingTerminatorError{Terminator: terminator}
	}
	end := pos + len(terminator)
	if dropped := len(src) - end; dropped > 0 {
		log.Debugf("discarding %d bytes after %s", dropped, terminator)
	}
	return src[:end], nil
}
