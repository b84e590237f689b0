package provider

import (
	"errors"
	"fmt"

	"github.com/yyyfor/stock-master/internal/httpx"
)

// FailureKind classifies why a provider call produced no data. Failures are
// recovered inside each provider; the registry inspects the kind for logging
// and then discards the error, so callers above the registry only ever see
// "result" or "no result".
type FailureKind string

const (
	KindUnsupported FailureKind = "unsupported"  // capability not implemented by this source
	KindUnavailable FailureKind = "unavailable"  // not configured (missing key/token)
	KindNetwork     FailureKind = "network"      // transport error or timeout
	KindParse       FailureKind = "parse"        // malformed or unexpected payload
	KindValidation  FailureKind = "validation"   // payload decoded but unusable (zero price, short series)
	KindRateLimited FailureKind = "rate_limited" // quota rejection from the source
)

// FetchError is the typed failure a provider returns instead of panicking or
// silently swallowing the cause.
type FetchError struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func failure(name string, kind FailureKind, err error) *FetchError {
	return &FetchError{Provider: name, Kind: kind, Err: err}
}

// classify wraps an error from the HTTP layer as a FetchError, separating
// malformed payloads (Parse) from transport failures (Network). Errors that
// are already typed pass through unchanged.
func classify(name string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	var de *httpx.DecodeError
	if errors.As(err, &de) {
		return failure(name, KindParse, err)
	}
	return failure(name, KindNetwork, err)
}

// IsUnsupported reports whether err marks a capability the provider does not
// implement at all.
func IsUnsupported(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindUnsupported
}

// ErrNoData is returned by the registry when no provider in the priority
// chain produced a usable result.
var ErrNoData = errors.New("no provider returned usable data")
