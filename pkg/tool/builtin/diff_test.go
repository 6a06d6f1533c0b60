package toolbuiltin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDiffHeader(t *testing.T) {
	diff := createDiff("a\n", "b\n", "/tmp/f.txt")
	assert.True(t, strings.HasPrefix(diff, "--- /tmp/f.txt\n+++ /tmp/f.txt\n"))
	assert.Contains(t, diff, "-a\n")
	assert.Contains(t, diff, "+b\n")
}

func TestCreateDiffContextAndSeparator(t *testing.T) {
	var before, after strings.Builder
	for i := 1; i <= 30; i++ {
		line := "line\n"
		before.WriteString(line)
		after.WriteString(line)
	}
	b := strings.Split(before.String(), "\n")
	b[4] = "changed early"
	b[24] = "changed late"
	modified := strings.Join(b, "\n")

	diff := createDiff(after.String(), modified, "f")

	// Two distant hunks produce a separator between groups.
	assert.Contains(t, diff, "...\n")
	assert.Contains(t, diff, "+changed early\n")
	assert.Contains(t, diff, "+changed late\n")
	// Unchanged context lines carry a leading space.
	assert.Contains(t, diff, " line\n")
}

func TestCreateDiffNewFile(t *testing.T) {
	diff := createDiff("", "first\nsecond\n", "f")
	assert.Contains(t, diff, "+first\n")
	assert.Contains(t, diff, "+second\n")
	for _, line := range strings.Split(diff, "\n")[2:] {
		assert.False(t, strings.HasPrefix(line, "-"), "unexpected deletion: %q", line)
	}
}

func TestCountChanges(t *testing.T) {
	additions, deletions := countChanges("a\nb\nc\n", "a\nx\nc\nd\n")
	assert.Equal(t, 2, additions)
	assert.Equal(t, 1, deletions)

	additions, deletions = countChanges("", "one\ntwo")
	assert.Equal(t, 2, additions)
	assert.Equal(t, 0, deletions)

	additions, deletions = countChanges("same\n", "same\n")
	assert.Equal(t, 0, additions)
	assert.Equal(t, 0, deletions)
}

func TestDiffLinesMissingNewline(t *testing.T) {
	lines := diffLines("a\nb")
	require.Len(t, lines, 2)
	assert.Equal(t, "a\n", lines[0])
	assert.Equal(t, "b\n", lines[1])
	assert.Nil(t, diffLines(""))
}
