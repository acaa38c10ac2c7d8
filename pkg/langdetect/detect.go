// Package langdetect classifies the source files named by %target
// directives. It uses go-enry to map file names, and content when the name
// is ambiguous, to a language.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by Detect.
const (
	LangC       = "c"
	LangCPP     = "c++"
	LangObjC    = "objective-c"
	LangUnknown = "text"
)

// cFamily are the candidates offered to the classifier when the file name
// gives no hint.
//
//nolint:gochecknoglobals // read-only candidate list
var cFamily = []string{"C", "C++", "Objective-C"}

// Detect returns the language of the file named filename. Content may be
// nil when the file could not be read, in which case only the name is used.
// Returns LangUnknown if the language cannot be determined.
func Detect(filename string, content []byte) string {
	// Strategy 1: an unambiguous extension, such as ".c" or ".cpp".
	if lang, safe := enry.GetLanguageByExtension(filename); safe && lang != "" {
		return normalize(lang)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		// Ambiguous names like "widget.h" default to C without content.
		if candidates := enry.GetLanguagesByExtension(filename, nil, nil); len(candidates) > 0 {
			return normalize(candidates[0])
		}
		return LangUnknown
	}

	// Strategy 2: constructs that only appear in C's relatives.
	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	// Strategy 3: classify among the extension's candidates.
	candidates := enry.GetLanguagesByExtension(filename, content, nil)
	if len(candidates) == 0 {
		candidates = cFamily
	}
	if lang, _ := enry.GetLanguageByClassifier(content, candidates); lang != "" {
		return normalize(lang)
	}

	return LangUnknown
}

// IsC reports whether lang can be included by a generated C test program.
// Unknown languages are given the benefit of the doubt.
func IsC(lang string) bool {
	return lang == LangC || lang == LangUnknown
}

// detectByPattern checks for C++ and Objective-C patterns.
func detectByPattern(content []byte) string {
	contentStr := string(content)

	if strings.Contains(contentStr, "@interface") ||
		strings.Contains(contentStr, "@implementation") ||
		strings.Contains(contentStr, "#import ") {
		return LangObjC
	}
	if strings.Contains(contentStr, "namespace ") ||
		strings.Contains(contentStr, "template <") ||
		strings.Contains(contentStr, "template<") ||
		strings.Contains(contentStr, "std::") {
		return LangCPP
	}
	return ""
}

// normalize converts go-enry language names to lower case.
func normalize(lang string) string {
	return strings.ToLower(lang)
}
