// Package portbind claims a free local TCP port by random probing inside a
// fixed range. The probe is not a sequential scan: callers must not assume
// first-available or monotonic selection.
package portbind

import (
	"errors"
	"fmt"
	"math/rand"
	"net"
	"syscall"
)

// listen is swapped out in tests to script bind outcomes.
var listen = net.Listen

// ExhaustedError reports that every probe in the range hit a port already in
// use, maxAttempts times in a row.
type ExhaustedError struct {
	From     int
	To       int
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no free port in range %d-%d after %d attempts", e.From, e.To, e.Attempts)
}

// Bind picks a uniformly random port in the inclusive range [from, to] and
// tries to listen on it. Address-in-use failures retry with a fresh random
// candidate up to maxAttempts times before returning *ExhaustedError; any
// other listen failure is returned immediately. On success the listener is
// left open and returned together with the bound port.
func Bind(from, to, maxAttempts int) (net.Listener, int, error) {
	if from > to {
		return nil, 0, fmt.Errorf("invalid port range %d-%d", from, to)
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		port := from + rand.Intn(to-from+1)
		ln, err := listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return ln, port, nil
		}
		if errors.Is(err, syscall.EADDRINUSE) {
			continue
		}
		return nil, 0, fmt.Errorf("bind port %d: %w", port, err)
	}
	return nil, 0, &ExhaustedError{From: from, To: to, Attempts: maxAttempts}
}
