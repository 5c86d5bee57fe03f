package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"logref/internal/source"
)

// mark запоминает смещение, с которого начался токен или trivia.
type mark uint32

// cursor walks the bytes of one file. It never reads past the end:
// peek and bump return 0 there.
type cursor struct {
	src  []byte
	file source.FileID
	off  uint32
}

func newCursor(f *source.File) cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("file %d too large for uint32 offsets: %w", f.ID, err))
	}
	return cursor{src: f.Content, file: f.ID}
}

func (c *cursor) eof() bool {
	return int(c.off) >= len(c.src)
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

// peek2 is ok only when two bytes remain.
func (c *cursor) peek2() (b0, b1 byte, ok bool) {
	if int(c.off)+1 >= len(c.src) {
		return 0, 0, false
	}
	return c.src[c.off], c.src[c.off+1], true
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.src[c.off]
	c.off++
	return b
}

func (c *cursor) eat(b byte) bool {
	if c.peek() == b && !c.eof() {
		c.off++
		return true
	}
	return false
}

// skip advances over n bytes already decoded by the caller, stopping at EOF.
func (c *cursor) skip(n int) {
	end, err := safecast.Conv[uint32](min(int(c.off)+n, len(c.src)))
	if err != nil {
		panic(fmt.Errorf("cursor overflow: %w", err))
	}
	c.off = end
}

// rest is the unread tail of the file.
func (c *cursor) rest() []byte {
	return c.src[c.off:]
}

func (c *cursor) mark() mark { return mark(c.off) }

func (c *cursor) reset(m mark) { c.off = uint32(m) }

func (c *cursor) spanFrom(m mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.off}
}
