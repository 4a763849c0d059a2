package blocklist

import (
	"bufio"
	"bytes"
	"strings"
)

// ParseList returns the entries of a blocklist body, one per line.
//
// Rules implemented:
// - Surrounding whitespace is trimmed
// - Empty lines and full-line comments (# ...) are ignored
// - Inline comments starting with # are stripped
//
// Entries are otherwise returned as written; normalization is up to the
// caller.
func ParseList(b []byte) []string {
	var out []string
	s := bufio.NewScanner(bytes.NewReader(b))
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 1024*1024)
	for s.Scan() {
		line := s.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
