package pwned

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

const (
	// PrefixLength is the number of hex characters sent to the range API.
	PrefixLength = 5
	// SuffixLength is the number of hex characters kept locally.
	SuffixLength = sha1.Size*2 - PrefixLength
)

// Digest is an uppercase hex encoded SHA-1 hash.
type Digest string

// Sum hashes the UTF-8 bytes of password.
func Sum(password string) Digest {
	sum := sha1.Sum([]byte(password))
	return Digest(strings.ToUpper(hex.EncodeToString(sum[:])))
}

func (d Digest) Prefix() string { return string(d[:PrefixLength]) }

func (d Digest) Suffix() string { return string(d[PrefixLength:]) }

func (d Digest) String() string { return string(d) }

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ValidPrefix reports whether p is a 5-character hex prefix.
func ValidPrefix(p string) bool {
	return len(p) == PrefixLength && isHex(p)
}
