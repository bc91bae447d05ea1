package completion

import (
	"context"
	"strings"
	"time"
)

// BackendID identifies one backend/model variant, e.g. "gemini/gemini-2.5-flash".
type BackendID string

// Chain is the ordered list of backends to try. Order is priority.
type Chain []BackendID

// ParseChain splits a comma separated list into a Chain, dropping blank items.
func ParseChain(list string) (chain Chain) {
	chain = make(Chain, 0)
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		chain = append(chain, BackendID(item))
	}
	return chain
}

// NewChain builds a Chain from plain strings.
func NewChain(ids ...string) (chain Chain) {
	chain = make(Chain, 0, len(ids))
	for _, id := range ids {
		chain = append(chain, BackendID(id))
	}
	return chain
}

// Invoker is the collaborator that performs one backend call.
// It must return the full completion text or an error; an empty string is
// allowed and is treated as an empty result.
type Invoker interface {
	Invoke(ctx context.Context, backend BackendID, prompt string) (text string, err error)
}

// InvokeFunc adapts a plain function to Invoker.
type InvokeFunc func(ctx context.Context, backend BackendID, prompt string) (text string, err error)

// Invoke calls f.
func (f InvokeFunc) Invoke(ctx context.Context, backend BackendID, prompt string) (text string, err error) {
	text, err = f(ctx, backend, prompt)
	return text, err
}

// Attempt records a single backend invocation.
type Attempt struct {
	Backend BackendID
	Number  int // 1-based, per backend
	Success bool
	Kind    FailureKind // meaningful only when Success is false
	Err     error
	Elapsed time.Duration
}

// Outcome is the label used in logs and metrics for this attempt.
func (a Attempt) Outcome() (outcome string) {
	if a.Success {
		outcome = "success"
		return outcome
	}
	outcome = a.Kind.String()
	return outcome
}

// Result is a successful run.
type Result struct {
	Text     string
	Backend  BackendID
	Attempts []Attempt
}
