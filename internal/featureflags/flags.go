// Package featureflags reads runtime toggles from the environment.
package featureflags

import (
	"os"
	"strings"
)

// Flags currently wired into the server.
const (
	// ReportCache caches rendered report payloads between requests.
	ReportCache = "report_cache"
	// EventFeed exposes the websocket mutation feed at /ws/events.
	EventFeed = "event_feed"
)

// Enabled reports whether a flag is turned on. A flag named "x" is
// read from FLAG_X and accepts 1/true/yes/on, case-insensitive.
func Enabled(name string) bool {
	value := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
