// Package program implements the program buffer half of C3: a mapping
// from positive line number to the token list that follows it, plus the
// cached maxLine.
package program

import (
	"sort"

	"github.com/jeff082chen/tinybasic/lang/token"
)

// Buffer stores the program currently held by the interpreter. It never
// contains a line with an empty token list: assigning an empty body
// deletes the line. Clear and ReplaceWith also drop lines.
type Buffer struct {
	lines   map[int]token.List
	maxLine int
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{lines: make(map[int]token.List)}
}

// Set stores body under line n. An empty body deletes the line instead.
func (b *Buffer) Set(n int, body token.List) {
	if len(body) == 0 {
		b.Delete(n)
		return
	}
	b.lines[n] = body
	if n > b.maxLine {
		b.maxLine = n
	}
}

// Delete removes line n, if present.
func (b *Buffer) Delete(n int) {
	delete(b.lines, n)
}

// Get returns the body stored at line n.
func (b *Buffer) Get(n int) (token.List, bool) {
	body, ok := b.lines[n]
	return body, ok
}

// MaxLine returns the largest line number stored since the buffer was
// created or last cleared, or 0 if none was. It is not recomputed on
// delete, so it can exceed every line still present.
func (b *Buffer) MaxLine() int { return b.maxLine }

// Clear empties the buffer and resets maxLine to 0.
func (b *Buffer) Clear() {
	b.lines = make(map[int]token.List)
	b.maxLine = 0
}

// Ascending returns every stored line number in increasing order.
func (b *Buffer) Ascending() []int {
	lines := make([]int, 0, len(b.lines))
	for n := range b.lines {
		lines = append(lines, n)
	}
	sort.Ints(lines)
	return lines
}

// ReplaceWith swaps b's contents for other's, used by LOAD to install a
// freshly parsed program only after the whole file has been read
// successfully.
func (b *Buffer) ReplaceWith(other *Buffer) {
	b.lines = other.lines
	b.maxLine = other.maxLine
}
