package entitystore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
)

var ErrNetworkTimeout = errors.New("network timeout")

// LoadError reports a data source that could not be loaded.
type LoadError struct {
	Source   string
	Attempts int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s failed after %d attempt(s): %v", e.Source, e.Attempts, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is worth retrying.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetworkTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Diagnostics maps a source name to its load failure. Sources that loaded
// have no entry.
type Diagnostics map[string]error

func (d Diagnostics) OK() bool {
	return len(d) == 0
}

func (d Diagnostics) Failed() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d Diagnostics) Messages() map[string]string {
	out := make(map[string]string, len(d))
	for name, err := range d {
		out[name] = err.Error()
	}
	return out
}
