package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the xxHash64 of the given byte slices, hashed as if
// they were concatenated.
func Checksum(parts ...[]byte) uint64 {
	if len(parts) == 1 {
		return xxhash.Sum64(parts[0])
	}

	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	return d.Sum64()
}

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
