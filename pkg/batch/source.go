package batch

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineLength bounds a single input line.
const maxLineLength = 1 << 20

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadCandidates splits src into one candidate per line with surrounding
// whitespace removed. Input is UTF-8; a UTF-8 or UTF-16 byte order mark is
// honoured and stripped. Blank lines are kept so that sequence numbers match
// line numbers. A line that is not valid UTF-8 fails the whole read: it is
// never repaired, since the repaired string is not the password the user
// wrote.
func ReadCandidates(src io.Reader) ([]string, error) {
	decoded, err := decode(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var candidates []string
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if !utf8.ValidString(text) {
			return nil, fmt.Errorf("%w: %w: line %d", ErrSourceUnavailable, ErrInvalidEncoding, line)
		}
		candidates = append(candidates, strings.TrimSpace(text))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	return candidates, nil
}

// decode strips a UTF-8 byte order mark and converts UTF-16 input (which
// always starts with one) to UTF-8. Anything else passes through untouched.
func decode(src io.Reader) (io.Reader, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(len(bomUTF8))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(head, bomUTF16LE), bytes.HasPrefix(head, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()), nil
	}

	return br, nil
}

// WriteAccepted writes every accepted candidate, in input order, one per line.
func WriteAccepted(dst io.Writer, results []Result) error {
	w := bufio.NewWriter(dst)
	for _, res := range results {
		if res.Status != StatusAccepted {
			continue
		}
		if _, err := w.WriteString(res.Candidate + "\n"); err != nil {
			return fmt.Errorf("%w: %w", ErrOutputFailed, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputFailed, err)
	}
	return nil
}
