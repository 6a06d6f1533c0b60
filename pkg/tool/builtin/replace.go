package toolbuiltin

import (
	"fmt"
	"strings"

	"github.com/stellarlinkco/opentool/internal/agenterr"
)

// Replace applies oldStr -> newStr in content using a cascade of
// matching strategies, from strict to permissive:
//
//  1. exact substring match
//  2. line-trimmed match (per-line leading/trailing whitespace ignored)
//  3. whitespace-normalized match (single lines, runs of whitespace
//     collapsed)
//  4. block anchor match (first and last trimmed lines bracket a block
//     of at least three lines)
//
// A strategy that finds nothing passes to the next one. A strategy
// that finds several candidates while replaceAll is false fails the
// whole operation as ambiguous; later, looser strategies never get to
// reinterpret an ambiguous match.
func Replace(content, oldStr, newStr string, replaceAll bool) (string, error) {
	strategies := []func(content, old string) []string{
		matchExact,
		matchLineTrimmed,
		matchWhitespaceNormalized,
		matchBlockAnchor,
	}

	for _, match := range strategies {
		candidates := match(content, oldStr)
		if len(candidates) == 0 {
			continue
		}
		if !replaceAll && len(candidates) > 1 {
			return "", agenterr.ToolExecution("edit", fmt.Sprintf(
				"oldString matches %d locations in content; provide a larger string with more surrounding context or use replaceAll",
				len(candidates)))
		}
		return applyCandidates(content, candidates, newStr, replaceAll), nil
	}

	return "", agenterr.ToolExecution("edit", "oldString not found in content")
}

// applyCandidates rewrites content with each matched region replaced
// once, in document order. With replaceAll false only the single
// candidate is touched.
func applyCandidates(content string, candidates []string, newStr string, replaceAll bool) string {
	if !replaceAll {
		return strings.Replace(content, candidates[0], newStr, 1)
	}

	// Consume candidates left to right so a replacement string that
	// happens to contain the old text is never rewritten again.
	var b strings.Builder
	rest := content
	for _, matched := range candidates {
		idx := strings.Index(rest, matched)
		if idx < 0 {
			continue
		}
		b.WriteString(rest[:idx])
		b.WriteString(newStr)
		rest = rest[idx+len(matched):]
	}
	b.WriteString(rest)
	return b.String()
}

// splitLines mirrors line iteration that drops the empty remainder
// after a trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func matchExact(content, old string) []string {
	if old == "" {
		return nil
	}
	count := strings.Count(content, old)
	candidates := make([]string, 0, count)
	for range count {
		candidates = append(candidates, old)
	}
	return candidates
}

func matchLineTrimmed(content, old string) []string {
	contentLines := splitLines(content)
	searchLines := splitLines(old)
	if len(searchLines) == 0 {
		return nil
	}

	var candidates []string
	for i := 0; i+len(searchLines) <= len(contentLines); i++ {
		all := true
		for j := range searchLines {
			if strings.TrimSpace(contentLines[i+j]) != strings.TrimSpace(searchLines[j]) {
				all = false
				break
			}
		}
		if all {
			candidates = append(candidates, strings.Join(contentLines[i:i+len(searchLines)], "\n"))
		}
	}
	return candidates
}

// matchWhitespaceNormalized compares single physical lines with runs
// of whitespace collapsed to one space. Multi-line needles are left to
// the anchor strategy.
func matchWhitespaceNormalized(content, old string) []string {
	normalize := func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}
	want := normalize(old)
	if want == "" {
		return nil
	}

	var candidates []string
	for _, line := range splitLines(content) {
		if normalize(line) == want {
			candidates = append(candidates, line)
		}
	}
	return candidates
}

// matchBlockAnchor locates blocks bracketed by the needle's first and
// last trimmed lines. The needle must span at least three lines; the
// closing anchor is the nearest candidate at least two lines below the
// opening one.
func matchBlockAnchor(content, old string) []string {
	contentLines := splitLines(content)
	searchLines := splitLines(old)
	if len(searchLines) < 3 {
		return nil
	}

	first := strings.TrimSpace(searchLines[0])
	last := strings.TrimSpace(searchLines[len(searchLines)-1])

	var candidates []string
	for i := range contentLines {
		if strings.TrimSpace(contentLines[i]) != first {
			continue
		}
		for j := i + 2; j < len(contentLines); j++ {
			if strings.TrimSpace(contentLines[j]) == last {
				candidates = append(candidates, strings.Join(contentLines[i:j+1], "\n"))
				break
			}
		}
	}
	return candidates
}
