// Package appctx provides the request-scoped staging area used for
// all-or-nothing writes.
//
// A RequestContext collects rollback-able actions and executes them on
// Commit. Single actions run in insertion order; a group runs its actions in
// parallel. When anything fails, every action that already succeeded is
// rolled back in reverse order:
//
//	rc := appctx.New(ctx, appctx.WithMaxParallel(8))
//	_ = rc.AddGroup(createA, createB, createC)
//	if err := rc.Commit(ctx); err != nil {
//	    // nothing staged is left behind
//	}
//
// A RequestContext belongs to one request and is discarded after Commit.
package appctx

import (
	"context"
	"errors"
	"sync"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
)

// Compile-time check that RequestContext implements domain.WriteStager.
var _ domain.WriteStager = (*RequestContext)(nil)

// ErrAlreadyCommitted is returned when AddAction, AddGroup, or Commit is
// called on a RequestContext that has already been committed.
var ErrAlreadyCommitted = errors.New("appctx: request context already committed")

// ErrNilAction is returned when a nil Action is passed to AddAction or
// AddGroup.
var ErrNilAction = errors.New("appctx: nil action")

// RequestContext embeds the request's context.Context and holds the queue of
// staged actions. Staging is safe for concurrent use; Commit runs once.
type RequestContext struct {
	context.Context

	maxParallel int

	queueMu   sync.Mutex
	steps     []step
	committed bool
}

// Option configures a RequestContext.
type Option func(*RequestContext)

// WithMaxParallel bounds how many actions of one group execute at the same
// time. Values below 1 mean unbounded.
func WithMaxParallel(n int) Option {
	return func(rc *RequestContext) { rc.maxParallel = n }
}

// New creates a RequestContext wrapping ctx with an empty queue.
func New(ctx context.Context, opts ...Option) *RequestContext {
	rc := &RequestContext{Context: ctx}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Pending returns the number of staged items. A group counts as one item.
func (rc *RequestContext) Pending() int {
	rc.queueMu.Lock()
	defer rc.queueMu.Unlock()
	return len(rc.steps)
}

// Execute runs an action immediately, outside the commit queue. It does not
// take part in Commit's rollback sequence and works after Commit.
func (rc *RequestContext) Execute(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	return action.Execute(rc.Context)
}
