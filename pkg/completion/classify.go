package completion

import (
	"net/http"

	"github.com/pkg/errors"
)

// FailureKind says how the orchestrator reacts to a failed attempt.
// The zero value is Fatal so that an unclassified failure is never retried.
type FailureKind int

const (
	// Fatal aborts the chain and surfaces the error.
	Fatal FailureKind = iota
	// Transient is a server-side hiccup; the same backend is retried with backoff.
	Transient
	// RateLimited means the backend's quota is exhausted; fail over immediately.
	RateLimited
	// EmptyResult is a successful call with blank text; fail over immediately.
	EmptyResult
)

func (k FailureKind) String() (name string) {
	switch k {
	case Transient:
		name = "transient"
	case RateLimited:
		name = "rate_limited"
	case EmptyResult:
		name = "empty_result"
	default:
		name = "fatal"
	}
	return name
}

// Classify maps a failed attempt's error to a FailureKind.
//
// 500 and 503 are transient, 429 is a rate limit, an ErrEmptyResult in the chain
// is an empty result. Everything else, including errors without a status, is fatal.
func Classify(err error) (kind FailureKind) {
	kind = Fatal
	if err == nil {
		return kind
	}

	if errors.Is(err, ErrEmptyResult) {
		kind = EmptyResult
		return kind
	}

	var coder StatusCoder
	if !errors.As(err, &coder) {
		return kind
	}

	switch coder.HTTPStatus() {
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		kind = Transient
	case http.StatusTooManyRequests:
		kind = RateLimited
	}

	return kind
}
