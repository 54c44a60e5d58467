// Package pumltest implements utilities for testing pumlls on the corpus of PlantUML files defined under
// test/testdata.
package pumltest

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

var update = flag.Bool("update", false, "updates the expected output of each test")

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

// Runner defines how a test will be run or updated.
type Runner interface {
	// Test runs the test. It's passed the .puml file being tested and is responsible for failing the passed in
	// [*testing.T] if there are any errors.
	Test(t *testing.T, path string)
	// Update updates the expected output of the test. It's passed the .puml file being updated and is responsible for
	// failing the passed in [*testing.T] if there are any errors.
	Update(t *testing.T, path string)
}

// Run runs or updates a test for each .puml file under test/testdata. The provided runner defines how each test is
// run or updated.
// By default, [Runner.Test] is called in a subtest for each file. If the -update flag is passed to the test binary,
// then [Runner.Update] is called instead.
// All subtests are run in parallel.
func Run(t *testing.T, runner Runner) {
	rootDir := mustGoModuleRoot(t)
	run(t, runner, filepath.Join(rootDir, "test", "testdata"))
}

func run(t *testing.T, runner Runner, dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range matches {
		testName := snakeToPascalCase(filepath.Base(path))
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		switch {
		case info.IsDir():
			t.Run(testName, func(t *testing.T) {
				t.Parallel()
				run(t, runner, path)
			})
		case filepath.Ext(path) == ".puml":
			t.Run(strings.TrimSuffix(testName, ".puml"), func(t *testing.T) {
				t.Parallel()
				if *update {
					runner.Update(t, path)
				} else {
					runner.Test(t, path)
				}
			})
		}
	}
}

func snakeToPascalCase(s string) string {
	var b strings.Builder
	for part := range strings.SplitSeq(s, "_") {
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// ComputeDiff returns a human-readable report of the differences between a wanted and got value.
func ComputeDiff(want, got any) string {
	diff := cmp.Diff(want, got, cmp.Transformer("BytesToString", func(b []byte) string {
		return string(b)
	}))
	return fmt.Sprintf("%s\n%s\n%s", green.Sprint("want -"), red.Sprint("got +"), colouriseDiff(diff))
}

// ComputeTextDiff returns a human-readable report of the differences between a wanted and got string.
// If there are no differences, an empty string is returned.
// The output of this function is more readable than [ComputeDiff] for string inputs.
func ComputeTextDiff(want, got string) string {
	edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
	diff := fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
	return colouriseDiff(diff)
}

func colouriseDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "-") {
			lines[i] = green.Sprint(line)
		} else if strings.HasPrefix(line, "+") {
			lines[i] = red.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}

// MustBuildBinary builds a Go binary defined in the github.com/marcuscaisey/puml Go module and returns the path to it.
// name should be a directory in the root of the module. A binary of the same name is output to the build directory.
func MustBuildBinary(t *testing.T, name string) string {
	t.Helper()

	rootDir := mustGoModuleRoot(t)
	buildDir := filepath.Join(rootDir, "build")
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		t.Fatalf("building %s: %s", name, err)
	}

	binaryPath := filepath.Join(buildDir, name)
	cmd := exec.Command("go", "build", "-o", binaryPath, "github.com/marcuscaisey/puml/"+name)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("building %s: %s: %v\nOutput:\n%s\n", name, cmd.String(), err, string(output))
	}

	return binaryPath
}

// MustReadFile returns the contents of the file at path. A missing file is treated as an empty one.
func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return contents
}

func mustGoModuleRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("determining go module root: %s", err)
	}

	for d := wd; d != "/"; d = filepath.Dir(d) {
		gomodPath := filepath.Join(d, "go.mod")
		if info, err := os.Stat(gomodPath); err == nil && !info.IsDir() {
			return d
		}
	}

	t.Fatal("determining go module root: no parent directory containing go.mod found")
	return ""
}
