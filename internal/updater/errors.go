// Package updater implements the update-state machine: checking a feed for
// a newer release, caching its installer locally, and validating it before
// handing a path to a launcher.
package updater

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/northlane-software/updatewing/internal/feed"
	"github.com/northlane-software/updatewing/internal/httperr"
)

// ErrorKind classifies why an update operation failed, so callers can react
// (retry, surface to a user, log at a different level) without parsing
// error strings.
type ErrorKind int

const (
	// Unknown is the zero value. normalize never assigns it: an error that
	// fits no more precise kind is classified as TransportFailed.
	Unknown ErrorKind = iota
	// TransportFailed means the request never got a response: DNS, dial,
	// TLS, or connection-reset failures.
	TransportFailed
	// ResponseUnsuccessful means the server responded with a non-2xx
	// status code.
	ResponseUnsuccessful
	// ResponseEmpty means the server responded successfully but the body
	// carried zero bytes.
	ResponseEmpty
	// FeedMalformed means the feed body could not be decoded into the
	// expected shape.
	FeedMalformed
	// Cancelled means the calling context was cancelled or timed out.
	Cancelled
	// FilesystemFailed means a local file system operation (create,
	// write, rename, stat) failed.
	FilesystemFailed
)

func (k ErrorKind) String() string {
	switch k {
	case TransportFailed:
		return "TransportFailed"
	case ResponseUnsuccessful:
		return "ResponseUnsuccessful"
	case ResponseEmpty:
		return "ResponseEmpty"
	case FeedMalformed:
		return "FeedMalformed"
	case Cancelled:
		return "Cancelled"
	case FilesystemFailed:
		return "FilesystemFailed"
	default:
		return "Unknown"
	}
}

// Error is the single error type the machine returns. It normalizes
// whatever failed underneath (transport, decode, file system) into a Kind
// so callers can branch with errors.As and a type switch on Kind, rather
// than matching strings.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("updater: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("updater: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// normalize wraps err, observed during op, into an *Error classified by
// inspecting its chain for known sentinel and typed errors. A nil err
// returns nil.
func normalize(op string, err error) error {
	if err == nil {
		return nil
	}

	var already *Error
	if errors.As(err, &already) {
		return already
	}

	kind := classify(err)
	return &Error{Kind: kind, Op: op, Err: err}
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Cancelled
	case isFeedMalformed(err):
		return FeedMalformed
	case isStatusError(err):
		return ResponseUnsuccessful
	case errors.Is(err, httperr.ErrEmptyBody):
		return ResponseEmpty
	case isFilesystemError(err):
		return FilesystemFailed
	case isTransportError(err):
		return TransportFailed
	default:
		return Unknown
	}
}

func isFeedMalformed(err error) bool {
	var feedErr *feed.FeedError
	return errors.As(err, &feedErr)
}

func isStatusError(err error) bool {
	var statusErr *httperr.StatusError
	return errors.As(err, &statusErr)
}

func isFilesystemError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr)
}

// isTransportError reports whether err looks like a network-level failure
// rather than something this package already classified more precisely.
// It is the fallback bucket for anything http.Client.Do returns that isn't
// a context cancellation.
func isTransportError(err error) bool {
	return err != nil
}
