package domain

import "errors"

var (
	// ErrMissingInput means the start or destination field was left empty.
	ErrMissingInput = errors.New("start and destination are required")
	// ErrMissingDestination means a hand-off was requested without a destination.
	ErrMissingDestination = errors.New("destination is required")
	// ErrNoPick means the ranking produced no streets to choose from.
	ErrNoPick = errors.New("no street available to pick")
	// ErrLocationNotFound means one of the endpoints could not be geocoded.
	ErrLocationNotFound = errors.New("location not found")
	// ErrIndexOutOfRange means a favorite position does not exist.
	ErrIndexOutOfRange = errors.New("favorite index out of range")
	// ErrSessionClosed means a map session was used after Dispose.
	ErrSessionClosed = errors.New("map session closed")
	// ErrLocationDenied means the platform refused to share the device position.
	ErrLocationDenied = errors.New("location permission denied")
)

var userMessages = []struct {
	err error
	msg string
}{
	{ErrMissingInput, "Enter both a Start and Destination."},
	{ErrMissingDestination, "Enter a destination."},
	{ErrNoPick, "No streets in your notes yet. Add some to get a pick."},
	{ErrLocationNotFound, "Could not find one of those locations. Try adding city/state."},
	{ErrIndexOutOfRange, "That favorite no longer exists."},
	{ErrSessionClosed, "The map is no longer available. Reload to start again."},
}

// UserMessage returns the inline advisory shown to the driver for err.
// Errors outside the domain taxonomy get a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := lookupMessage(err); ok {
		return msg
	}
	return "Something went wrong. Please try again."
}

// HasUserMessage reports whether err belongs to the domain taxonomy and so
// has a specific advisory.
func HasUserMessage(err error) bool {
	_, ok := lookupMessage(err)
	return ok
}

func lookupMessage(err error) (string, bool) {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg, true
		}
	}
	return "", false
}
