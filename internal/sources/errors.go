package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind distinguishes the upstream failure modes the boundary maps to
// distinct HTTP statuses.
type ErrorKind int

const (
	// KindUpstream covers any genuine upstream failure that is not a
	// timeout: auth errors, malformed responses, Graph error payloads.
	KindUpstream ErrorKind = iota
	// KindTimeout covers expired deadlines talking to the upstream.
	KindTimeout
)

// FetchError is a typed fetch failure reported by a source adapter.
type FetchError struct {
	Network string
	Kind    ErrorKind
	Err     error
}

func (e *FetchError) Error() string {
	if e.Kind == KindTimeout {
		return fmt.Sprintf("%s fetch timed out: %v", e.Network, e.Err)
	}
	return fmt.Sprintf("%s fetch failed: %v", e.Network, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTimeout reports whether the error is a fetch timeout.
func (e *FetchError) IsTimeout() bool { return e.Kind == KindTimeout }

// classifyTransport wraps a transport-level error, detecting timeouts from
// the deadline sentinels and net.Error.
func classifyTransport(network string, err error) *FetchError {
	kind := KindUpstream

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}

	return &FetchError{Network: network, Kind: kind, Err: err}
}
