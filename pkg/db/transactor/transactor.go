package transactor

import (
	"context"
	"sync"
)

// Transactor runs function within single database transaction
type Transactor interface {
	WithinTransaction(context.Context, func(context.Context) error) error
}

type afterCommitKey struct{}

type afterCommitHooks struct {
	mu  sync.Mutex
	fns []func()
}

func withAfterCommitHooks(ctx context.Context) (context.Context, *afterCommitHooks) {
	hooks := &afterCommitHooks{}
	return context.WithValue(ctx, afterCommitKey{}, hooks), hooks
}

func (h *afterCommitHooks) run() {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// AfterCommit postpones fn until transaction stored in context is committed.
// fn is discarded on rollback and is called immediately if context has no transaction.
func AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks); ok {
		hooks.mu.Lock()
		hooks.fns = append(hooks.fns, fn)
		hooks.mu.Unlock()
		return
	}
	fn()
}
