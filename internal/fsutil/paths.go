package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// Contains reports whether child lives under parent. Symlinks are
// resolved when both paths exist; otherwise a lexical check is used.
func Contains(parent, child string) bool {
	p, perr := filepath.EvalSymlinks(parent)
	c, cerr := filepath.EvalSymlinks(child)
	if perr != nil || cerr != nil {
		p, c = filepath.Clean(parent), filepath.Clean(child)
	}
	rel, err := filepath.Rel(p, c)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// Overlaps reports whether either path contains the other.
func Overlaps(a, b string) bool {
	return Contains(a, b) || Contains(b, a)
}

// Relative returns target relative to base, or target unchanged when no
// relative form exists.
func Relative(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}

// FindUp walks from start toward the filesystem root collecting every
// directory level that holds target. stop, when non-empty, is the last
// directory inspected.
func FindUp(target, start, stop string) []string {
	var found []string
	current := filepath.Clean(start)
	for {
		candidate := filepath.Join(current, target)
		if _, err := os.Stat(candidate); err == nil {
			found = append(found, candidate)
		}
		if stop != "" && current == filepath.Clean(stop) {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return found
}

const (
	maxSuggestions      = 3
	suggestionThreshold = 0.7
)

// SuggestSimilar scans the parent directory of a missing path and
// returns up to three entries with names close to the requested one.
// Substring containment counts as a full match; the rest are ranked by
// Jaro-Winkler similarity.
func SuggestSimilar(path string) []string {
	dir := filepath.Dir(path)
	want := strings.ToLower(filepath.Base(path))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type candidate struct {
		name  string
		score float64
	}
	var candidates []candidate
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		score := matchr.JaroWinkler(want, name, false)
		if strings.Contains(name, want) || strings.Contains(want, name) {
			score = 1
		}
		if score >= suggestionThreshold {
			candidates = append(candidates, candidate{entry.Name(), score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, filepath.Join(dir, c.name))
	}
	return suggestions
}
