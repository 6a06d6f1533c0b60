// Package id mints prefixed, time-sortable identifiers for sessions,
// messages, and related records.
package id

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// Prefix names the record family an identifier belongs to.
type Prefix string

const (
	Session    Prefix = "ses"
	Message    Prefix = "msg"
	Permission Prefix = "per"
	User       Prefix = "usr"
	Part       Prefix = "prt"
)

const (
	base62   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	randLen  = 14
	timeBits = 48
)

var (
	mu          sync.Mutex
	lastMillis  int64
	lastCounter uint64
)

// Ascending returns given if non-empty, after checking its prefix,
// otherwise it mints a new identifier that sorts after every
// identifier minted before it.
func Ascending(p Prefix, given string) string {
	return generate(p, given, false)
}

// Descending mints identifiers that sort before earlier ones, so the
// newest record comes first in a lexicographic scan.
func Descending(p Prefix, given string) string {
	return generate(p, given, true)
}

func generate(p Prefix, given string, descending bool) string {
	if given != "" {
		if !strings.HasPrefix(given, string(p)+"_") {
			panic(fmt.Sprintf("id: %q does not start with %q", given, string(p)+"_"))
		}
		return given
	}

	mu.Lock()
	now := time.Now().UnixMilli()
	if now != lastMillis {
		lastMillis = now
		lastCounter = 0
	}
	lastCounter++
	value := uint64(now)*0x1000 + lastCounter
	mu.Unlock()

	if descending {
		value = ^value
	}
	value &= (1 << timeBits) - 1

	var b strings.Builder
	b.Grow(len(p) + 1 + timeBits/4 + randLen)
	b.WriteString(string(p))
	b.WriteByte('_')
	fmt.Fprintf(&b, "%012x", value)
	for range randLen {
		b.WriteByte(base62[rand.IntN(len(base62))])
	}
	return b.String()
}
