// Package asyncres coordinates the loading/result/error state of one remote
// operation invoked from a screen.
//
// A Resource is built from an operation and the arguments bound to it when the
// screen is set up (a job id, an application ref). Invoke adds the per-call
// argument, runs the operation and folds its outcome into the shared State:
//
//	res := asyncres.New(asyncres.Ack(svc.SetJobHiringStatus), jobID)
//	if _, err := res.Invoke(ctx, false); err != nil {
//	    // err is an *apperror.ErrorInfo; res.State().Error holds the same value
//	}
//
// Invoke is re-entrant and never cancels a call already in flight. With the
// default LastSettledWins policy the call that settles last decides Data and
// Error, so callers read their own outcome from Invoke's return values rather
// than from the shared state. LatestInvocationWins tags every call with a
// generation and drops results from calls that have been superseded.
package asyncres

import (
	"context"
	"sync"

	"github.com/fadilmartias/job-board/internal/apperror"
	"github.com/fadilmartias/job-board/internal/logger"
)

// Operation is a remote call. bound is fixed at construction, arg is supplied
// per invocation.
type Operation[B, A, T any] func(ctx context.Context, bound B, arg A) (T, error)

// Ack adapts a write operation that only acknowledges into an Operation.
func Ack[B, A any](fn func(ctx context.Context, bound B, arg A) error) Operation[B, A, struct{}] {
	return func(ctx context.Context, bound B, arg A) (struct{}, error) {
		return struct{}{}, fn(ctx, bound, arg)
	}
}

type SettlePolicy int

const (
	// LastSettledWins lets whichever call settles last write Data/Error.
	LastSettledWins SettlePolicy = iota
	// LatestInvocationWins discards results of calls started before the most
	// recent invocation.
	LatestInvocationWins
)

const (
	lastSettledName      = "last-settled"
	latestInvocationName = "latest-invocation"
)

func (p SettlePolicy) String() string {
	if p == LatestInvocationWins {
		return latestInvocationName
	}
	return lastSettledName
}

// ParsePolicy maps a policy name to a SettlePolicy. Unknown names fall back
// to LastSettledWins.
func ParsePolicy(name string) SettlePolicy {
	if name == latestInvocationName {
		return LatestInvocationWins
	}
	return LastSettledWins
}

// State is a snapshot of a resource. Data keeps the last successful result
// across new invocations and failures; HasData reports whether one exists.
type State[T any] struct {
	Loading bool
	Data    T
	HasData bool
	Error   *apperror.ErrorInfo
}

type options struct {
	name   string
	policy SettlePolicy
}

type Option func(*options)

func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithPolicy(p SettlePolicy) Option {
	return func(o *options) { o.policy = p }
}

type Resource[B, A, T any] struct {
	name   string
	op     Operation[B, A, T]
	bound  B
	policy SettlePolicy

	mu        sync.Mutex
	state     State[T]
	inflight  int
	issued    uint64
	listeners map[int]func(State[T])
	nextSub   int
}

func New[B, A, T any](op Operation[B, A, T], bound B, opts ...Option) *Resource[B, A, T] {
	o := options{name: "resource", policy: LastSettledWins}
	for _, opt := range opts {
		opt(&o)
	}
	return &Resource[B, A, T]{
		name:      o.name,
		op:        op,
		bound:     bound,
		policy:    o.policy,
		listeners: make(map[int]func(State[T])),
	}
}

// Invoke runs the operation and returns this call's own outcome. A non-nil
// error is always an *apperror.ErrorInfo.
func (r *Resource[B, A, T]) Invoke(ctx context.Context, arg A) (T, error) {
	r.mu.Lock()
	r.issued++
	gen := r.issued
	r.inflight++
	r.state.Loading = true
	snap := r.state
	r.mu.Unlock()
	r.notify(snap)

	data, err := r.call(ctx, arg)
	var info *apperror.ErrorInfo
	if err != nil {
		info = apperror.Info(err)
		logger.Named("asyncres").Debugw("operation failed",
			"resource", r.name, "generation", gen, "error", err)
	}

	r.mu.Lock()
	r.inflight--
	if r.policy == LatestInvocationWins && gen < r.issued {
		logger.Named("asyncres").Debugw("discarding superseded result",
			"resource", r.name, "generation", gen, "latest", r.issued)
	} else if info != nil {
		r.state.Error = info
	} else {
		r.state.Data = data
		r.state.HasData = true
		r.state.Error = nil
	}
	r.state.Loading = r.inflight > 0
	snap = r.state
	r.mu.Unlock()
	r.notify(snap)

	if info != nil {
		var zero T
		return zero, info
	}
	return data, nil
}

func (r *Resource[B, A, T]) call(ctx context.Context, arg A) (data T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = apperror.Newf("%s: operation panicked: %v", r.name, p)
		}
	}()
	return r.op(ctx, r.bound, arg)
}

func (r *Resource[B, A, T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resource[B, A, T]) Data() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Data, r.state.HasData
}

func (r *Resource[B, A, T]) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Loading
}

func (r *Resource[B, A, T]) Err() *apperror.ErrorInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Error
}

// Bound returns the arguments fixed at construction.
func (r *Resource[B, A, T]) Bound() B {
	return r.bound
}

// Subscribe registers fn for every state change and returns a function that
// removes it. Listeners run outside the resource lock; with concurrent
// settlements they may see snapshots out of order, so State is the source of
// truth.
func (r *Resource[B, A, T]) Subscribe(fn func(State[T])) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *Resource[B, A, T]) notify(s State[T]) {
	r.mu.Lock()
	fns := make([]func(State[T]), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
