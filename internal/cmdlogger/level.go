package cmdlogger

import (
	"fmt"
	"log/slog"
	"strings"
)

// verbosities maps the --verbosity names to slog levels, quietest first.
var verbosities = []struct {
	name  string
	level slog.Level
}{
	{"error", slog.LevelError},
	{"warn", slog.LevelWarn},
	{"info", slog.LevelInfo},
	{"debug", slog.LevelDebug},
}

// Levels returns the accepted verbosity names, quietest first.
func Levels() []string {
	names := make([]string, len(verbosities))
	for i, v := range verbosities {
		names[i] = v.name
	}

	return names
}

// ParseLevel resolves a verbosity name, ignoring case and surrounding space.
// Unknown names yield slog.LevelInfo and an error listing the valid ones.
func ParseLevel(name string) (slog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range verbosities {
		if v.name == name {
			return v.level, nil
		}
	}

	return slog.LevelInfo, fmt.Errorf("unknown verbosity %q, want one of %s", name, strings.Join(Levels(), "|"))
}
