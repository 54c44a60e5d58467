package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/marcuscaisey/puml/puml/analysis"
)

// errDiagnosticsReported is returned by pumlls lint when it's printed any diagnostics.
var errDiagnosticsReported = errors.New("diagnostics reported")

func (a *app) newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [path]",
		Short: "Report problems with a PlantUML document",
		Long: `Report problems with a PlantUML document.

The document is read from stdin if path is omitted or is "-". Diagnostics are written to stderr and the exit code is 1
if there are any.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			name, text, err := readDocument(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			return lint(cmd.ErrOrStderr(), name, text)
		},
	}
}

// readDocument reads the document at path, or from stdin if path is empty or "-". The name of the document is
// returned with its text.
func readDocument(stdin io.Reader, path string) (name string, text string, err error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %s", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, string(data), nil
}

func lint(w io.Writer, name, text string) error {
	diags := analysis.Analyse(text)
	if len(diags) == 0 {
		return nil
	}
	lines := lineBreakRe.Split(text, -1)
	formatted := make([]string, len(diags))
	for i, diag := range diags {
		formatted[i] = formatDiagnostic(name, lines, diag)
	}
	fmt.Fprintln(w, strings.Join(formatted, "\n"))
	return errDiagnosticsReported
}

var lineBreakRe = regexp.MustCompile(`\r\n|\r|\n`)

// formatDiagnostic formats a diagnostic by displaying its message and highlighting the range of the document that it
// applies to. lines are the lines of the document.
//
// For example:
//
//	test.puml:2:1: error: Unrecognized keyword "clas". Did you mean "class"?
//	clas Foo
//	~~~~
func formatDiagnostic(name string, lines []string, diag *analysis.Diagnostic) string {
	bold := color.New(color.Bold)
	severityColor := color.New(color.FgYellow)
	if diag.Severity == analysis.Error {
		severityColor = color.New(color.FgRed)
	}

	var b strings.Builder
	buildString := func() string {
		return strings.TrimSuffix(b.String(), "\n")
	}

	start, end := diag.Range.Start, diag.Range.End
	bold.Fprintf(&b, "%s:%d:%d: ", name, start.Line+1, start.Character+1)
	bold.Fprint(&b, severityColor.Sprintf("%s: ", diag.Severity), diag.Message, "\n")

	if start.Line >= len(lines) {
		return buildString()
	}
	rangeLines := lines[start.Line : min(end.Line, len(lines)-1)+1]
	for _, line := range rangeLines {
		if !utf8.ValidString(line) {
			return buildString()
		}
	}
	fmt.Fprintln(&b, rangeLines[0])
	if start == end {
		return buildString()
	}

	startCol := byteOffset(rangeLines[0], start.Character)
	if len(rangeLines) == 1 {
		endCol := byteOffset(rangeLines[0], end.Character)
		fmt.Fprint(&b, strings.Repeat(" ", runewidth.StringWidth(rangeLines[0][:startCol])))
		severityColor.Fprintln(&b, strings.Repeat("~", runewidth.StringWidth(rangeLines[0][startCol:endCol])))
	} else {
		fmt.Fprint(&b, strings.Repeat(" ", runewidth.StringWidth(rangeLines[0][:startCol])))
		severityColor.Fprintln(&b, strings.Repeat("~", runewidth.StringWidth(rangeLines[0][startCol:])))
		for _, line := range rangeLines[1 : len(rangeLines)-1] {
			fmt.Fprintln(&b, line)
			severityColor.Fprintln(&b, strings.Repeat("~", runewidth.StringWidth(line)))
		}
		if lastLine := rangeLines[len(rangeLines)-1]; len(lastLine) > 0 {
			endCol := byteOffset(lastLine, end.Character)
			fmt.Fprintln(&b, lastLine)
			severityColor.Fprintln(&b, strings.Repeat("~", runewidth.StringWidth(lastLine[:endCol])))
		}
	}

	return buildString()
}

// byteOffset returns the byte offset in line of a UTF-16 column. Columns past the end of line are clamped to it.
func byteOffset(line string, character int) int {
	units := 0
	for i, r := range line {
		if units >= character {
			return i
		}
		units += len(utf16.Encode([]rune{r}))
	}
	return len(line)
}
