package generator

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// LineSource yields one dictionary entry per call and io.EOF at the end.
// Any other error is treated as a fatal read failure.
type LineSource interface {
	Next() ([]byte, error)
}

// Sizer is implemented by sources that know how many entries they hold.
type Sizer interface {
	Len() (uint64, bool)
}

// longest accepted wordlist line
const maxLineSize = 4 * 1024 * 1024

// ScannerSource streams lines from a reader. Trailing \r is stripped and
// empty lines are skipped, so CRLF wordlists behave like LF ones.
type ScannerSource struct {
	sc   *bufio.Scanner
	line int64
}

func NewScannerSource(r io.Reader) *ScannerSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &ScannerSource{sc: sc}
}

func (s *ScannerSource) Next() ([]byte, error) {
	for s.sc.Scan() {
		s.line++
		b := bytes.TrimRight(s.sc.Bytes(), "\r\n")
		if len(b) == 0 {
			continue
		}
		return bytes.Clone(b), nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", s.line+1, err)
	}
	return nil, io.EOF
}

// SliceSource serves entries from memory.
type SliceSource struct {
	words []string
	pos   int
}

func NewSliceSource(words ...string) *SliceSource {
	return &SliceSource{words: words}
}

func (s *SliceSource) Next() ([]byte, error) {
	if s.pos >= len(s.words) {
		return nil, io.EOF
	}
	w := s.words[s.pos]
	s.pos++
	return []byte(w), nil
}

func (s *SliceSource) Len() (uint64, bool) { return uint64(len(s.words)), true }
