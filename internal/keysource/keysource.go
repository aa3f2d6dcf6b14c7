// Package keysource streams keys out of input files for trie builds.
//
// Two formats are supported: plain text with one key per line, and JSON
// holding an array of strings, either at the top level or under a named
// field of the top-level object. Both are read incrementally, so the input
// is never held in memory as a whole.
package keysource

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Format selects how an input is split into keys.
type Format uint8

const (
	FormatLines Format = iota + 1
	FormatJSON
)

// MaxLineSize bounds a single line of a FormatLines input.
const MaxLineSize = 1 << 20

func (f Format) String() string {
	switch f {
	case FormatLines:
		return "lines"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "lines":
		return FormatLines, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unknown key format %q - must be one of: lines, json", name)
	}
}

// Reader yields the keys of one input.
//
// Iteration stops at the first error, which Err reports afterwards.
type Reader struct {
	r        io.Reader
	format   Format
	arrayKey string
	err      error
}

// New returns a Reader over r.
//
// For FormatJSON, arrayKey names the field of the top-level object that
// holds the keys; an empty arrayKey expects the array at the top level.
func New(r io.Reader, format Format, arrayKey string) *Reader {
	return &Reader{r: r, format: format, arrayKey: arrayKey}
}

// Err returns the error that ended the last iteration, if any.
func (k *Reader) Err() error {
	return k.err
}

// Keys returns an iterator over the keys. It can be ranged over once.
func (k *Reader) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		switch k.format {
		case FormatLines:
			k.err = streamLines(k.r, yield)
		case FormatJSON:
			k.err = streamJSON(k.r, k.arrayKey, yield)
		default:
			k.err = fmt.Errorf("unsupported key format %s", k.format)
		}
	}
}

// streamLines yields lines without their line endings. Empty lines are
// yielded as the empty key.
func streamLines(r io.Reader, yield func(string) bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for sc.Scan() {
		if !yield(strings.TrimSuffix(sc.Text(), "\r")) {
			return nil
		}
	}

	return sc.Err()
}

func streamJSON(r io.Reader, arrayKey string, yield func(string) bool) error {
	decoder := json.NewDecoder(r)

	if arrayKey == "" {
		_, err := streamArray(decoder, yield)
		return err
	}

	if err := expectDelim(decoder, '{'); err != nil {
		return err
	}

	found := false
	for decoder.More() {
		t, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}

		key, ok := t.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %T", t)
		}

		if key != arrayKey {
			if err := skipValue(decoder); err != nil {
				return fmt.Errorf("failed to skip field %s: %w", key, err)
			}

			continue
		}
		if found {
			return fmt.Errorf("field %q appears more than once", arrayKey)
		}

		found = true
		more, err := streamArray(decoder, yield)
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		if !more {
			return nil
		}
	}

	if !found {
		return fmt.Errorf("field %q not found", arrayKey)
	}

	return nil
}

// streamArray yields the strings of an array and reports whether the
// consumer wants more.
func streamArray(decoder *json.Decoder, yield func(string) bool) (bool, error) {
	if err := expectDelim(decoder, '['); err != nil {
		return false, err
	}

	for i := 0; decoder.More(); i++ {
		var key string
		if err := decoder.Decode(&key); err != nil {
			return false, fmt.Errorf("element %d: %w", i, err)
		}
		if !yield(key) {
			return false, nil
		}
	}

	if _, err := decoder.Token(); err != nil {
		return false, fmt.Errorf("failed to read array end: %w", err)
	}

	return true, nil
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	t, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", want, err)
	}
	if t != want {
		return fmt.Errorf("expected %q, got %v", want, t)
	}

	return nil
}

// skipValue consumes the next value, whatever its type.
func skipValue(decoder *json.Decoder) error {
	var raw json.RawMessage

	return decoder.Decode(&raw)
}
