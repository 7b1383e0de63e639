package storage

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Namer generates unique storage names of the form <millis>-<random>-<original>.
type Namer struct {
	Now  func() time.Time
	Rand func() int64
}

// DefaultNamer uses the wall clock and the global random source.
var DefaultNamer = Namer{
	Now:  time.Now,
	Rand: func() int64 { return rand.Int64N(1_000_000_000) },
}

// Name returns a storage name that keeps the client's file name as a readable suffix.
func (n Namer) Name(original string) string {
	return fmt.Sprintf("%d-%d-%s", n.Now().UnixMilli(), n.Rand(), CleanName(original))
}

// CleanName reduces a client supplied file name to a safe base name.
func CleanName(original string) string {
	name := strings.ReplaceAll(original, `\`, "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\x00", "")
	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}

// NameTime extracts the creation time embedded by Namer. ok is false for names
// that do not start with a millisecond timestamp.
func NameTime(name string) (t time.Time, ok bool) {
	prefix, _, found := strings.Cut(name, "-")
	if !found {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
