// Package expect compares captured command output with an expected value.
package expect

import (
	"fmt"
	"strings"

	"shellrun/pkg/system"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"
)

// Outcome is the result of comparing captured output with an expectation.
type Outcome struct {
	Matched bool
	// Diff is a colorized inline diff from expected to actual; empty on match.
	Diff    string
	// Summary lists the first differing line, e.g. "line 2: want "b", got "c"".
	Summary string
}

// Compare checks got against want.
func Compare(want, got string) Outcome {
	if want == got {
		return Outcome{Matched: true}
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return Outcome{
		Diff:    dmp.DiffPrettyText(diffs),
		Summary: firstDifference(want, got),
	}
}

// Load reads an expected-output file.
func Load(path string) (string, error) {
	content, err := afero.ReadFile(system.AppFs, path)
	if err != nil {
		return "", fmt.Errorf("error reading expected output %s: %w", path, err)
	}
	return string(content), nil
}

func firstDifference(want, got string) string {
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	for i := 0; i < len(wantLines) || i < len(gotLines); i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		switch {
		case i >= len(gotLines):
			return fmt.Sprintf("line %d: want %q, got end of output", i+1, w)
		case i >= len(wantLines):
			return fmt.Sprintf("line %d: unexpected %q", i+1, g)
		case w != g:
			return fmt.Sprintf("line %d: want %q, got %q", i+1, w, g)
		}
	}
	return ""
}
