package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNamer_Name(t *testing.T) {
	n := Namer{
		Now:  func() time.Time { return time.UnixMilli(1700000000123) },
		Rand: func() int64 { return 42 },
	}

	assert.Equal(t, "1700000000123-42-aula 1.mp4", n.Name("aula 1.mp4"))
	assert.Equal(t, "1700000000123-42-passwd", n.Name("../../etc/passwd"))
	assert.Equal(t, "1700000000123-42-doc.pdf", n.Name(`C:\Users\me\doc.pdf`))
	assert.Equal(t, "1700000000123-42-file", n.Name(""))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("1-2-aula.mp4"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName(".."))
	assert.False(t, ValidName("a/b"))
}

func TestNameTime(t *testing.T) {
	ts, ok := NameTime("1700000000123-42-aula.mp4")
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000123), ts.UnixMilli())

	_, ok = NameTime("cover.png")
	assert.False(t, ok)
	_, ok = NameTime("abc-1-x.pdf")
	assert.False(t, ok)
}
