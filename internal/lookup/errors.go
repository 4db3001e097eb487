package lookup

import "errors"

// Failure kinds. Errors returned by this package wrap one of them together
// with the cause, so both can be tested with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrUpstream = errors.New("upstream unavailable")
	ErrStore    = errors.New("store unavailable")
)

// Kind names the failure kind of err for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrStore):
		return "store"
	default:
		return "internal"
	}
}
