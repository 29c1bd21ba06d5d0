// Package navlink builds deep links that hand a trip off to a navigation app.
package navlink

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/signals-planner/internal/domain"
)

// App is a navigation app that accepts a deep link.
type App string

const (
	AppAuto   App = ""
	AppApple  App = "apple"
	AppGoogle App = "google"
	AppWaze   App = "waze"
)

// Target says how a client should open the link.
type Target string

const (
	TargetSameWindow Target = "same-window"
	TargetNewWindow  Target = "new-window"
)

// Handoff is a ready-to-open navigation link.
type Handoff struct {
	App    App    `json:"app"`
	URL    string `json:"url"`
	Target Target `json:"target"`
}

var iosUserAgent = regexp.MustCompile(`iPad|iPhone|iPod`)

// ParseApp maps a user-supplied app name to an App. Empty and "auto" select
// the platform default.
func ParseApp(s string) (App, error) {
	switch App(strings.ToLower(strings.TrimSpace(s))) {
	case AppAuto, "auto":
		return AppAuto, nil
	case AppApple:
		return AppApple, nil
	case AppGoogle:
		return AppGoogle, nil
	case AppWaze:
		return AppWaze, nil
	default:
		return AppAuto, fmt.Errorf("unknown navigation app %q (want apple, google, or waze)", s)
	}
}

// DefaultApp picks Apple Maps for iOS user agents and Google Maps otherwise.
func DefaultApp(userAgent string) App {
	if iosUserAgent.MatchString(userAgent) {
		return AppApple
	}
	return AppGoogle
}

// Build creates the hand-off link. An AppAuto app resolves via DefaultApp.
// A blank start falls back to origin when one was acquired, and is otherwise
// left for the app to fill with the device location.
func Build(app App, userAgent, start, dest string, origin *domain.Coordinate) (Handoff, error) {
	start, dest = strings.TrimSpace(start), strings.TrimSpace(dest)
	if dest == "" {
		return Handoff{}, domain.ErrMissingDestination
	}
	if start == "" && origin != nil {
		start = formatCoordinate(*origin)
	}
	if app == AppAuto {
		app = DefaultApp(userAgent)
	}

	switch app {
	case AppApple:
		u := "http://maps.apple.com/?daddr=" + encodeComponent(dest)
		if start != "" {
			u += "&saddr=" + encodeComponent(start)
		}
		return Handoff{App: app, URL: u + "&dirflg=d", Target: TargetSameWindow}, nil
	case AppGoogle:
		u := "https://www.google.com/maps/dir/" + encodeComponent(start) + "/" + encodeComponent(dest)
		return Handoff{App: app, URL: u, Target: TargetNewWindow}, nil
	case AppWaze:
		u := "https://waze.com/ul?q=" + encodeComponent(dest) + "&navigate=yes"
		return Handoff{App: app, URL: u, Target: TargetNewWindow}, nil
	default:
		return Handoff{}, fmt.Errorf("unknown navigation app %q", app)
	}
}

// encodeComponent percent-encodes s for use inside a path segment or query
// value, with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatCoordinate(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
