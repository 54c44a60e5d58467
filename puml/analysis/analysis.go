// Package analysis checks PlantUML documents for common mistakes.
//
// The checks are textual: there's no parser. A document is checked for a start tag, for having at least as many end
// tags as start tags, and for lines which start with a misspelling of a keyword.
package analysis

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Source is the value which identifies diagnostics produced by this package when they're shown to a user.
const Source = "puml-lsp"

// Severity is the severity of a [Diagnostic].
type Severity int

// Possible [Severity] values. The values match the LSP DiagnosticSeverity values.
const (
	Error Severity = iota + 1
	Warning
	Information
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Information:
		return "information"
	case Hint:
		return "hint"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Position is a zero-based line and character offset in a document. Characters are counted in UTF-16 code units.
type Position struct {
	Line      int
	Character int
}

// Range is a range of a document. End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// Diagnostic describes a problem with a range of a document.
type Diagnostic struct {
	Severity Severity
	Range    Range
	Message  string
}

const missingStartTagMsg = "PlantUML diagrams should usually start with @startuml (or other @start tags)."

var (
	startTagRe = regexp.MustCompile(`@start\w+`)
	endTagRe   = regexp.MustCompile(`@end\w+`)
)

// Analyse returns the diagnostics for a document with the given text. The result replaces any diagnostics computed for
// a previous version of the document.
//
// Diagnostics are returned in the order of the checks which produce them: missing start tag, unbalanced tags, then
// unrecognised keywords in line order.
func Analyse(text string) []*Diagnostic {
	doc := newDocument(text)
	return slices.Concat(
		checkStartTag(doc),
		checkTagBalance(doc),
		checkKeywords(doc),
	)
}

func checkStartTag(doc *document) []*Diagnostic {
	for _, marker := range startMarkers {
		if strings.Contains(doc.text, marker) {
			return nil
		}
	}
	return []*Diagnostic{{
		Severity: Warning,
		Range:    Range{Start: doc.positionAt(0), End: doc.positionAt(min(10, doc.len()))},
		Message:  missingStartTagMsg,
	}}
}

// checkTagBalance only reports missing end tags. Tags aren't paired up, so a document with as many end tags as start
// tags passes even if they're in the wrong order or of different diagram types.
func checkTagBalance(doc *document) []*Diagnostic {
	starts := len(startTagRe.FindAllStringIndex(doc.text, -1))
	ends := len(endTagRe.FindAllStringIndex(doc.text, -1))
	if starts <= ends {
		return nil
	}
	return []*Diagnostic{{
		Severity: Error,
		Range:    Range{Start: doc.positionAt(0), End: doc.positionAt(doc.len())},
		Message:  fmt.Sprintf("Missing @end tag. Found %d start tags and %d end tags.", starts, ends),
	}}
}

// memberIndicators appear in lines which declare relationships, fields, methods or blocks rather than elements.
var memberIndicators = []string{"--", "..", "->", "{", "}", ":", "("}

func checkKeywords(doc *document) []*Diagnostic {
	var diags []*Diagnostic
	for i, line := range strings.Split(doc.text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if skipLine(line) {
			continue
		}

		word := lettersOnly(strings.Fields(trimSpace(line))[0])
		if len(word) <= 3 || slices.Contains(keywords, word) || !isLowerASCII(word) {
			continue
		}

		for _, keyword := range keywords {
			if !IsClose(word, keyword) {
				continue
			}
			start, end := wordColumns(line, word)
			diags = append(diags, &Diagnostic{
				Severity: Error,
				Range: Range{
					Start: Position{Line: i, Character: start},
					End:   Position{Line: i, Character: end},
				},
				Message: fmt.Sprintf("Unrecognized keyword %q. Did you mean %q?", word, keyword),
			})
			break
		}
	}
	return diags
}

// skipLine reports whether a line can't start with a keyword: blank lines, comments, tags, preprocessor directives,
// relationships and members, and indented lines.
func skipLine(line string) bool {
	trimmed := trimSpace(line)
	if trimmed == "" {
		return true
	}
	switch trimmed[0] {
	case '\'', '@', '!':
		return true
	}
	for _, indicator := range memberIndicators {
		if strings.Contains(trimmed, indicator) {
			return true
		}
	}
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// trimSpace trims whitespace and byte order marks from both ends of s.
func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return r
		}
		return -1
	}, s)
}

func isLowerASCII(s string) bool {
	for i := range len(s) {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return s != ""
}

// wordColumns returns the UTF-16 column range of the first occurrence of word in line. If word doesn't occur in line
// because non-letters were removed from the middle of it, the range of the line's first token is returned instead.
func wordColumns(line, word string) (int, int) {
	if idx := strings.Index(line, word); idx >= 0 {
		start := utf16Len(line[:idx])
		return start, start + utf16Len(word)
	}
	token := strings.Fields(trimSpace(line))[0]
	start := utf16Len(line[:strings.Index(line, token)])
	return start, start + utf16Len(token)
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
