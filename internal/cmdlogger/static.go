package cmdlogger

import (
	"fmt"
	"log/slog"
)

// Install makes h the default slog handler.
func Install(h *Handler) {
	slog.SetDefault(slog.New(h))
}

// HasErrored returns true if there have been any calls to Handle with
// a level of [slog.LevelError], assuming the default handler is a [Handler].
//
// If it is not, this will always return false.
func HasErrored() bool {
	if h, ok := slog.Default().Handler().(*Handler); ok {
		return h.HasErrored()
	}

	return false
}

func SetLevel(level slog.Leveler) {
	if h, ok := slog.Default().Handler().(*Handler); ok {
		h.SetLevel(level)
	}
}

// SendEverythingToStderr redirects the default handler, if it is a [Handler].
func SendEverythingToStderr() {
	if h, ok := slog.Default().Handler().(*Handler); ok {
		h.SendEverythingToStderr()
	}
}

func Debugf(msg string, args ...any) {
	slog.Debug(fmt.Sprintf(msg, args...))
}

func Infof(msg string, args ...any) {
	slog.Info(fmt.Sprintf(msg, args...))
}

func Warnf(msg string, args ...any) {
	slog.Warn(fmt.Sprintf(msg, args...))
}

func Errorf(msg string, args ...any) {
	slog.Error(fmt.Sprintf(msg, args...))
}
