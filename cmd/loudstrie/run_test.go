package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(append([]string{"loudstrie"}, args...), &stdout, &stderr)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func buildTrie(t *testing.T, extra ...string) string {
	t.Helper()

	keys := writeFile(t, "keys.txt", "apple\napply\r\nbanana\nband\nApple\n")
	out := filepath.Join(t.TempDir(), "words.trie")

	res := runCLI(t, append(append([]string{"build", "-o", out}, extra...), keys)...)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "wrote "+out)

	return out
}

func TestBuildAndLookup(t *testing.T) {
	for _, extra := range [][]string{
		nil,
		{"--checksum", "--big-endian"},
		{"--pack", "zstd"},
		{"--pack", "lz4", "--checksum"},
	} {
		t.Run(strings.Join(extra, " "), func(t *testing.T) {
			image := buildTrie(t, extra...)

			res := runCLI(t, "lookup", "--verify", image, "apply", "banana")
			require.Equal(t, exitOK, res.code, res.stderr)

			lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
			require.Len(t, lines, 2)
			require.True(t, strings.HasPrefix(lines[0], "apply\t"))
			require.True(t, strings.HasPrefix(lines[1], "banana\t"))
		})
	}
}

func TestLookup_Missing(t *testing.T) {
	image := buildTrie(t)

	res := runCLI(t, "lookup", image, "apple", "cherry")
	require.Equal(t, exitNotFound, res.code)
	require.Contains(t, res.stdout, "cherry\t-1\n")
}

func TestPrefixAndPredict(t *testing.T) {
	image := buildTrie(t)

	res := runCLI(t, "predict", image, "ban")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, []string{"banana", "band"}, keysOf(res.stdout))

	res = runCLI(t, "predict", "--limit", "1", image, "app")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Len(t, keysOf(res.stdout), 1)

	res = runCLI(t, "prefix", image, "applesauce")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, []string{"apple"}, keysOf(res.stdout))

	res = runCLI(t, "prefix", image, "zebra")
	require.Equal(t, exitNotFound, res.code)
	require.Empty(t, res.stdout)
}

func TestPredict_Expansion(t *testing.T) {
	image := buildTrie(t)
	table := writeFile(t, "table.toml", "[expansion]\na = \"A\"\n")

	res := runCLI(t, "predict", "-e", table, image, "apple")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, []string{"Apple", "apple"}, keysOf(res.stdout))

	bad := writeFile(t, "bad.toml", "[expansion]\nab = \"A\"\n")
	res = runCLI(t, "predict", "-e", bad, image, "apple")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "invalid expansion table")
}

func TestRestore(t *testing.T) {
	image := buildTrie(t)

	res := runCLI(t, "restore", image, "0", "4")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, "0\tband\n4\tbanana\n", res.stdout)

	res = runCLI(t, "restore", image, "5")
	require.Equal(t, exitNotFound, res.code)

	res = runCLI(t, "restore", image, "x")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "invalid key ID")
}

func TestStat(t *testing.T) {
	image := buildTrie(t, "--checksum")

	res := runCLI(t, "stat", image)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "keys:          5\n")
	require.Contains(t, res.stdout, "checksum:      true\n")

	plain := buildTrie(t)
	res = runCLI(t, "stat", "--verify", plain)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "carries no checksum")
	require.Contains(t, res.stdout, "checksum:      false\n")
}

func TestInvalidImage(t *testing.T) {
	path := writeFile(t, "junk.trie", strings.Repeat("x", 64))

	res := runCLI(t, "stat", path)
	require.Equal(t, exitBadImage, res.code)
	require.Contains(t, res.stderr, "invalid trie image")
}

func TestBuild_Errors(t *testing.T) {
	keys := writeFile(t, "keys.txt", "short\nmuch-too-long\n")
	out := filepath.Join(t.TempDir(), "x.trie")

	res := runCLI(t, "build", "-o", out, "--max-depth", "5", keys)
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "key too long")

	res = runCLI(t, "build", "-o", out, "--pack", "brotli", keys)
	require.Equal(t, exitError, res.code)

	res = runCLI(t, "build", "-o", out)
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "expected exactly one keys file")
}

func TestBuild_JSONKeys(t *testing.T) {
	keys := writeFile(t, "keys.json", `{"version": 2, "words": ["kiwi", "kiwano", "lime"]}`)
	out := filepath.Join(t.TempDir(), "x.trie")

	res := runCLI(t, "build", "-o", out, "--format", "json", "--json-field", "words", keys)
	require.Equal(t, exitOK, res.code, res.stderr)

	res = runCLI(t, "predict", out, "ki")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, []string{"kiwano", "kiwi"}, keysOf(res.stdout))

	res = runCLI(t, "build", "-o", out, "--format", "json", keys)
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "reading keys")
}

func TestVerbosity(t *testing.T) {
	keys := writeFile(t, "keys.txt", "a\nb\n")
	out := filepath.Join(t.TempDir(), "x.trie")

	res := runCLI(t, "--verbosity", "debug", "build", "-o", out, keys)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "trie built")

	res = runCLI(t, "--verbosity", "debug", "lookup", out, "a")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "opened "+out+": 2 keys, 3 nodes")

	res = runCLI(t, "--verbosity", "error", "build", "-o", out, keys)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Empty(t, res.stdout)
}

func keysOf(out string) []string {
	var keys []string
	for line := range strings.Lines(out) {
		key, _, _ := strings.Cut(line, "\t")
		keys = append(keys, key)
	}

	return keys
}
