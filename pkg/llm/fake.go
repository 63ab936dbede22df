package llm

import (
	"context"
	"sync"
)

// Fake is a scripted Completer. Each call consumes the next reply; once the
// script runs out the last reply repeats. Err, when set, fails every call.
type Fake struct {
	mu       sync.Mutex
	replies  []string
	calls    int
	requests []Request

	Err error
}

// NewFake returns a Fake that answers with replies in order.
func NewFake(replies ...string) *Fake {
	return &Fake{replies: replies}
}

// Complete implements Completer.
func (f *Fake) Complete(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.replies) == 0 {
		return "", ErrEmptyCompletion
	}

	i := min(f.calls, len(f.replies)-1)
	f.calls++
	return f.replies[i], nil
}

// Requests returns every request seen so far.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// LastRequest returns the most recent request, if any.
func (f *Fake) LastRequest() (Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return Request{}, false
	}
	return f.requests[len(f.requests)-1], true
}
