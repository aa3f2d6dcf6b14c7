package keyexp

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/arloliu/loudstrie/errs"
)

// Table maps an input byte to the set of edge labels it matches.
//
// An input byte always matches itself; a table only adds alternatives. The
// zero value is the identity table. Tables are immutable and safe to share
// between concurrent searches.
type Table struct {
	// accept[c] is a 256-bit set of labels matched by input c, nil for identity.
	accept *[256][4]uint64
}

// Identity returns the identity table, equal to the zero value.
func Identity() Table {
	return Table{}
}

// NewTable creates a table where each input byte in expansions also matches
// every byte of its string.
//
// Example:
//
//	// 'a' matches 'a', 'A' and '@'
//	table := keyexp.NewTable(map[byte]string{'a': "A@"})
func NewTable(expansions map[byte]string) Table {
	if len(expansions) == 0 {
		return Table{}
	}

	accept := new([256][4]uint64)
	for c := range 256 {
		accept[c][c>>6] |= 1 << (c & 63)
	}
	for c, labels := range expansions {
		for i := 0; i < len(labels); i++ {
			l := labels[i]
			accept[c][l>>6] |= 1 << (l & 63)
		}
	}

	return Table{accept: accept}
}

// IsIdentity reports whether the table matches every byte only to itself.
func (t *Table) IsIdentity() bool {
	return t == nil || t.accept == nil
}

// Matches reports whether input may be consumed by an edge labeled label.
func (t *Table) Matches(input, label byte) bool {
	if t.IsIdentity() {
		return input == label
	}

	return t.accept[input][label>>6]&(1<<(label&63)) != 0
}

// Expand returns the labels matched by c in ascending order.
func (t *Table) Expand(c byte) []byte {
	if t.IsIdentity() {
		return []byte{c}
	}

	var out []byte
	for l := range 256 {
		if t.Matches(c, byte(l)) {
			out = append(out, byte(l))
		}
	}

	return out
}

// tableFile is the TOML form of a table:
//
//	[expansion]
//	"a" = "A@"
//	"o" = "0O"
type tableFile struct {
	Expansion map[string]string `toml:"expansion"`
}

// LoadTableFile reads a table from a TOML file. Keys other than the
// expansion section are rejected.
func LoadTableFile(path string) (Table, error) {
	var f tableFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", errs.ErrInvalidExpansionTable, err)
	}

	return f.table(md)
}

// ParseTable decodes a table from TOML text, like LoadTableFile.
func ParseTable(data string) (Table, error) {
	var f tableFile
	md, err := toml.Decode(data, &f)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", errs.ErrInvalidExpansionTable, err)
	}

	return f.table(md)
}

func (f tableFile) table(md toml.MetaData) (Table, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}

		return Table{}, fmt.Errorf("%w: unknown keys: %s", errs.ErrInvalidExpansionTable, strings.Join(keys, ", "))
	}

	expansions := make(map[byte]string, len(f.Expansion))
	for _, input := range slices.Sorted(maps.Keys(f.Expansion)) {
		if len(input) != 1 {
			return Table{}, fmt.Errorf("%w: input %q must be a single byte", errs.ErrInvalidExpansionTable, input)
		}
		expansions[input[0]] = f.Expansion[input]
	}

	return NewTable(expansions), nil
}
