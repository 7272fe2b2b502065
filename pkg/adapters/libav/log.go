package libav

import (
	"strings"

	"github.com/asticode/go-astiav"
	"github.com/user/vidplay/pkg/ports"
)

// RouteLogs sends libav's own log output at warning level and above to log.
func RouteLogs(log ports.Logger) {
	astiav.SetLogLevel(astiav.LogLevelWarning)
	astiav.SetLogCallback(func(_ astiav.Classer, l astiav.LogLevel, _, msg string) {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			return
		}
		switch {
		case l <= astiav.LogLevelError:
			log.Error("libav: %s", msg)
		case l <= astiav.LogLevelWarning:
			log.Warn("libav: %s", msg)
		default:
			log.Debug("libav: %s", msg)
		}
	})
}
