// Package cli runs the line-oriented checker: a count and that many
// forbidden domains, then a count and that many domains to test. Each test
// domain produces "Bad" or "Good" on its own line.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TinaKropaneva/restricted-domains/internal/domain"
)

const (
	verdictBad  = "Bad"
	verdictGood = "Good"
)

// ReadCount reads one line and parses its first field as a non-negative count.
func ReadCount(r *bufio.Reader) (int, error) {
	line, err := readLine(r)
	if err != nil {
		return 0, fmt.Errorf("read count: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("read count: empty line")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("read count %q: %w", fields[0], err)
	}
	if n < 0 {
		return 0, fmt.Errorf("read count: negative value %d", n)
	}
	return n, nil
}

// ReadDomains reads exactly n lines. Lines are kept as-is apart from the
// line terminator; empty lines are valid domains.
func ReadDomains(r *bufio.Reader, n int) ([]string, error) {
	domains := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line, err := readLine(r)
		if err != nil {
			return nil, fmt.Errorf("read domain %d of %d: %w", i+1, n, err)
		}
		domains = append(domains, line)
	}
	return domains, nil
}

// Run reads both lists from in and writes one verdict per test domain to out.
func Run(in io.Reader, out io.Writer, logger zerolog.Logger) error {
	r := bufio.NewReader(in)

	forbidden, err := readSection(r)
	if err != nil {
		return fmt.Errorf("forbidden domains: %w", err)
	}
	set := domain.BuildFromText(forbidden)
	logger.Debug().Int("entries", len(forbidden)).Int("roots", set.Len()).Msg("forbidden set built")

	tests, err := readSection(r)
	if err != nil {
		return fmt.Errorf("test domains: %w", err)
	}

	w := bufio.NewWriter(out)
	bad := 0
	for _, d := range tests {
		verdict := verdictGood
		if set.IsForbiddenText(d) {
			verdict = verdictBad
			bad++
		}
		if _, err := w.WriteString(verdict + "\n"); err != nil {
			return fmt.Errorf("write verdict: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	logger.Debug().Int("checked", len(tests)).Int("bad", bad).Msg("done")
	return nil
}

func readSection(r *bufio.Reader) ([]string, error) {
	n, err := ReadCount(r)
	if err != nil {
		return nil, err
	}
	return ReadDomains(r, n)
}

// readLine returns the next line without "\n" or "\r\n". A last line with
// no terminator is returned normally; io.ErrUnexpectedEOF means no data was
// left at all.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", io.ErrUnexpectedEOF
			}
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
