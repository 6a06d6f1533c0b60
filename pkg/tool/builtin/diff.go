package toolbuiltin

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// diffLines splits text for diffing, keeping the newline on each line
// so the rendered diff reproduces the input byte for byte. A missing
// final newline is restored on the last line.
func diffLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}
	return lines
}

// createDiff renders a unified-style diff between before and after
// with three lines of context per hunk. Hunks are separated by a bare
// "..." line instead of @@ headers.
func createDiff(before, after, path string) string {
	a := diffLines(before)
	b := diffLines(after)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", path, path)

	matcher := difflib.NewMatcher(a, b)
	for idx, group := range matcher.GetGroupedOpCodes(3) {
		if idx > 0 {
			sb.WriteString("...\n")
		}
		for _, op := range group {
			switch op.Tag {
			case 'e':
				for _, line := range a[op.I1:op.I2] {
					sb.WriteString(" ")
					sb.WriteString(line)
				}
			case 'd':
				for _, line := range a[op.I1:op.I2] {
					sb.WriteString("-")
					sb.WriteString(line)
				}
			case 'i':
				for _, line := range b[op.J1:op.J2] {
					sb.WriteString("+")
					sb.WriteString(line)
				}
			case 'r':
				for _, line := range a[op.I1:op.I2] {
					sb.WriteString("-")
					sb.WriteString(line)
				}
				for _, line := range b[op.J1:op.J2] {
					sb.WriteString("+")
					sb.WriteString(line)
				}
			}
		}
	}
	return sb.String()
}

// countChanges reports the number of added and deleted lines between
// before and after.
func countChanges(before, after string) (additions, deletions int) {
	matcher := difflib.NewMatcher(diffLines(before), diffLines(after))
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'd':
			deletions += op.I2 - op.I1
		case 'i':
			additions += op.J2 - op.J1
		case 'r':
			deletions += op.I2 - op.I1
			additions += op.J2 - op.J1
		}
	}
	return additions, deletions
}
