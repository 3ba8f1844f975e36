/*
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package asmpp preprocesses assembly source before it is tokenized:
// .include directives are spliced in, .macro definitions collected and
// their invocations expanded, and everything after the first .end dropped.
package asmpp

import (
	"os"

	"github.com/fwessels/asmpp/internal/preprocessor"
)

type (
	Macro                  = preprocessor.Macro
	IncludeRecursionError  = preprocessor.IncludeRecursionError
	IncludeIOError         = preprocessor.IncludeIOError
	DuplicateMacroError    = preprocessor.DuplicateMacroError
	UndefinedMacroError    = preprocessor.UndefinedMacroError
	ArityMismatchError     = preprocessor.ArityMismatchError
	MacroRecursionError    = preprocessor.MacroRecursionError
	MissingTerminatorError = preprocessor.MissingTerminatorError
	SyntaxError            = preprocessor.SyntaxError
)

// Preprocess transforms source, the contents of the file at entryPath, with
// default settings. Include paths in the source are taken literally.
func Preprocess(source, entryPath string) (string, error) {
	return preprocessor.NewPreprocessor().ProcessString(source, entryPath)
}

// PreprocessFile reads path and preprocesses it as the entry file.
func PreprocessFile(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Preprocess(string(buf), path)
}
