package pwned

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one "SUFFIX:COUNT" line of a range response.
type Record struct {
	Suffix string
	Count  int
}

// ParseRange reads a range response body. Lines may be separated by CRLF or
// LF and blank lines are ignored. The number of records is not bounded.
func ParseRange(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		rec, err := parseRecord(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedResponse, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return records, nil
}

func parseRecord(text string) (Record, error) {
	suffix, count, ok := strings.Cut(text, ":")
	if !ok {
		return Record{}, fmt.Errorf("missing separator in %q", text)
	}

	suffix = strings.TrimSpace(suffix)
	if len(suffix) != SuffixLength || !isHex(suffix) {
		return Record{}, fmt.Errorf("invalid suffix %q", suffix)
	}

	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || n < 0 {
		return Record{}, fmt.Errorf("invalid count %q", count)
	}

	return Record{Suffix: strings.ToUpper(suffix), Count: n}, nil
}

// Contains reports whether suffix appears in records. Comparison ignores
// case. Padding records (count 0) never match.
func Contains(records []Record, suffix string) bool {
	for _, rec := range records {
		if rec.Count > 0 && strings.EqualFold(rec.Suffix, suffix) {
			return true
		}
	}
	return false
}
