package keyservice

import (
	"context"
	"sync"
)

// CompletionFunc receives the outcome of an asynchronous operation.
// Exactly one of model and err is non-nil. It is invoked exactly once per
// call, from the goroutine servicing that call.
type CompletionFunc func(model *KeyModel, err error)

// GetKeyAsync is the callback form of GetKey. The round trip runs in its
// own goroutine; complete fires exactly once when it finishes, including
// when ctx is cancelled first (the cancellation is classified like any
// other transport failure, the call never hangs).
func (c *Client) GetKeyAsync(ctx context.Context, secret, keyID string, complete CompletionFunc) {
	go func() {
		complete(c.GetKey(ctx, secret, keyID))
	}()
}

// GetKeyViaLongSecretAsync is the callback form of GetKeyViaLongSecret.
func (c *Client) GetKeyViaLongSecretAsync(ctx context.Context, longSecret, keyID string, complete CompletionFunc) {
	go func() {
		complete(c.GetKeyViaLongSecret(ctx, longSecret, keyID))
	}()
}

// CreateKeyAsync is the callback form of CreateKey.
func (c *Client) CreateKeyAsync(ctx context.Context, secret string, complete CompletionFunc) {
	go func() {
		complete(c.CreateKey(ctx, secret))
	}()
}

// Future is a single-shot promise over one asynchronous operation. It
// resolves exactly once, from the single invocation of the underlying
// completion callback; it never duplicates request logic.
type Future struct {
	done  chan struct{}
	once  sync.Once
	model *KeyModel
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve settles the future. Additional calls are ignored.
func (f *Future) resolve(model *KeyModel, err error) {
	f.once.Do(func() {
		f.model = model
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future has settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is cancelled. After the
// future has settled, Wait always returns the same outcome.
func (f *Future) Wait(ctx context.Context) (*KeyModel, error) {
	select {
	case <-f.done:
		return f.model, f.err
	case <-ctx.Done():
		return nil, &Error{Op: "wait", Kind: KindUnknown, Err: ctx.Err()}
	}
}

// GetKeyFuture is the promise form of GetKey, built on GetKeyAsync.
func (c *Client) GetKeyFuture(ctx context.Context, secret, keyID string) *Future {
	f := newFuture()
	c.GetKeyAsync(ctx, secret, keyID, f.resolve)
	return f
}

// GetKeyViaLongSecretFuture is the promise form of GetKeyViaLongSecret.
func (c *Client) GetKeyViaLongSecretFuture(ctx context.Context, longSecret, keyID string) *Future {
	f := newFuture()
	c.GetKeyViaLongSecretAsync(ctx, longSecret, keyID, f.resolve)
	return f
}

// CreateKeyFuture is the promise form of CreateKey.
func (c *Client) CreateKeyFuture(ctx context.Context, secret string) *Future {
	f := newFuture()
	c.CreateKeyAsync(ctx, secret, f.resolve)
	return f
}
