// Package seqfile loads buzzer pattern and melody definitions from the
// line-oriented text formats used on device storage.
//
// A pattern file starts with a "# pattern" header line; every following
// non-blank, non-comment line holds four integer tokens: pulse count,
// frequency (Hz), duration (ms) and interval (ms). A melody file starts
// with "# play" and holds three integer tokens per line: frequency,
// duration and rest. Tokens may be whitespace- or quote-delimited.
//
// The loaders fill caller-owned fixed-capacity slices and return how many
// entries were stored. Malformed data lines are skipped, and entries beyond
// the slice capacity are silently dropped; only a bad header aborts a load.
package seqfile

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"buzzgo/core"
)

// Header lines identifying the two file formats
const (
	PatternHeader = "# pattern"
	PlayHeader    = "# play"
)

// Default capacities for device-side sequence storage, mirroring the
// firmware's fixed buffers.
const (
	MaxPatternPulses = core.MaxPatternPulses
	MaxMelodyTones   = core.MaxMelodyTones
)

// ErrBadHeader is returned when the first non-blank line of a file does not
// match the expected format header. Nothing is loaded in that case.
var ErrBadHeader = errors.New("seqfile: invalid format header")

// LoadPattern reads pulse-train entries from r into dst and returns the
// number of entries stored (at most len(dst)).
func LoadPattern(r io.Reader, dst []core.Pulse) (int, error) {
	n := 0
	err := scanLines(r, PatternHeader, func(tok []string) {
		if n >= len(dst) || len(tok) < 4 {
			return
		}
		count, ok0 := parseUint(tok[0], 0xFF)
		freq, ok1 := parseUint(tok[1], 0xFFFF)
		dur, ok2 := parseUint(tok[2], 0xFFFF)
		interval, ok3 := parseUint(tok[3], 0xFFFF)
		if !ok0 || !ok1 || !ok2 || !ok3 {
			return
		}
		dst[n] = core.Pulse{
			Count:     uint8(count),
			Frequency: uint16(freq),
			Duration:  uint16(dur),
			Interval:  uint16(interval),
		}
		n++
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// LoadTones reads melody steps from r into dst and returns the number of
// entries stored (at most len(dst)).
func LoadTones(r io.Reader, dst []core.Tone) (int, error) {
	n := 0
	err := scanLines(r, PlayHeader, func(tok []string) {
		if n >= len(dst) || len(tok) < 3 {
			return
		}
		freq, ok0 := parseUint(tok[0], 0xFFFF)
		dur, ok1 := parseUint(tok[1], 0xFFFF)
		rest, ok2 := parseUint(tok[2], 0xFFFF)
		if !ok0 || !ok1 || !ok2 {
			return
		}
		dst[n] = core.Tone{
			Frequency: uint16(freq),
			Duration:  uint16(dur),
			Rest:      uint16(rest),
		}
		n++
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// LoadPatternFile is LoadPattern over a file path.
func LoadPatternFile(path string, dst []core.Pulse) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return LoadPattern(f, dst)
}

// LoadTonesFile is LoadTones over a file path.
func LoadTonesFile(path string, dst []core.Tone) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return LoadTones(f, dst)
}

// scanLines walks r line by line: the first non-blank line must equal
// header, later blank and comment lines are skipped, and every remaining
// line is tokenized (honoring quotes) and handed to emit.
func scanLines(r io.Reader, header string, emit func(tok []string)) error {
	scanner := bufio.NewScanner(r)
	sawHeader := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !sawHeader {
			if line != header {
				return ErrBadHeader
			}
			sawHeader = true
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		tok, err := shlex.Split(line)
		if err != nil {
			// Unbalanced quote or similar: skip the line, keep loading
			continue
		}
		emit(tok)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if !sawHeader {
		return ErrBadHeader
	}
	return nil
}

// parseUint parses a non-negative integer no larger than max.
func parseUint(s string, max uint64) (uint64, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v > max {
		return 0, false
	}
	return v, true
}
