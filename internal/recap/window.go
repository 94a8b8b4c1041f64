package recap

import (
	"fmt"
	"time"
)

// Window is the lookback period used to select merged pull requests.
type Window int

const (
	Daily Window = iota
	Weekly
)

// ParseWindow parses "daily" or "weekly".
func ParseWindow(s string) (Window, error) {
	switch s {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	default:
		return 0, fmt.Errorf("invalid range %q (expected daily or weekly)", s)
	}
}

// Days returns the window length in days.
func (w Window) Days() int {
	if w == Weekly {
		return 7
	}
	return 1
}

// Start returns the lower bound of the window: now minus the window length.
func (w Window) Start(now time.Time) time.Time {
	return now.UTC().Add(-time.Duration(w.Days()) * 24 * time.Hour)
}

func (w Window) String() string {
	if w == Weekly {
		return "weekly"
	}
	return "daily"
}

// Label returns the capitalized form used in message headers.
func (w Window) Label() string {
	if w == Weekly {
		return "Weekly"
	}
	return "Daily"
}
