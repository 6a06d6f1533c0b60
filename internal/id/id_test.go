package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAscendingShape(t *testing.T) {
	got := Ascending(Session, "")
	require.True(t, strings.HasPrefix(got, "ses_"))
	assert.Len(t, got, len("ses_")+12+14)

	hex := got[len("ses_") : len("ses_")+12]
	for _, c := range hex {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestAscendingMonotonic(t *testing.T) {
	prev := Ascending(Message, "")
	for range 200 {
		next := Ascending(Message, "")
		require.Less(t, prev, next)
		prev = next
	}
}

func TestDescendingMonotonic(t *testing.T) {
	prev := Descending(Message, "")
	for range 200 {
		next := Descending(Message, "")
		require.Greater(t, prev, next)
		prev = next
	}
}

func TestGivenPassthrough(t *testing.T) {
	assert.Equal(t, "ses_abc", Ascending(Session, "ses_abc"))
	assert.Equal(t, "msg_abc", Descending(Message, "msg_abc"))
}

func TestGivenWrongPrefixPanics(t *testing.T) {
	assert.Panics(t, func() { Ascending(Session, "msg_abc") })
	assert.Panics(t, func() { Descending(Part, "ses_abc") })
}

func TestConcurrentUnique(t *testing.T) {
	const workers, per = 8, 100

	var mu sync.Mutex
	seen := make(map[string]bool, workers*per)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, per)
			for range per {
				local = append(local, Ascending(Permission, ""))
			}
			mu.Lock()
			for _, s := range local {
				seen[s] = true
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*per)
}
