package oracle

import (
	"errors"
	"fmt"
)

// Kind classifies why the oracle produced nothing usable.
type Kind int

const (
	// Transport covers connection errors, timeouts and non-2xx statuses.
	Transport Kind = iota + 1
	// Malformed covers envelopes or content that are not the expected JSON.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Failure is returned by Ask for every unsuccessful call.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("oracle %s failure: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsFailure reports whether err carries an oracle Failure and returns it.
func IsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func transportErr(format string, args ...any) *Failure {
	return &Failure{Kind: Transport, Err: fmt.Errorf(format, args...)}
}

func malformedErr(format string, args ...any) *Failure {
	return &Failure{Kind: Malformed, Err: fmt.Errorf(format, args...)}
}
