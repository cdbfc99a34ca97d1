package resilience

import (
	"context"
	"errors"
	"sync"
)

// SingleFlight deduplicates concurrent calls for the same key. Callers that
// join an in-flight call share its result, including its error.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	wg  sync.WaitGroup
	val any
	err error
	dup int
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	val, err, shared, _ := g.do(key, fn)
	return val, err, shared
}

// DoContext is Do for work that runs under the caller's ctx. A caller that
// joined a call which ended with a context error, while its own ctx is still
// live, runs the call again instead of inheriting another caller's
// cancellation.
func (g *SingleFlight) DoContext(ctx context.Context, key string, fn func() (any, error)) (any, error, bool) {
	for {
		val, err, shared, joined := g.do(key, fn)
		if joined && isContextError(err) && ctx.Err() == nil {
			continue
		}
		return val, err, shared
	}
}

func (g *SingleFlight) do(key string, fn func() (any, error)) (val any, err error, shared, joined bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}

	if c, ok := g.calls[key]; ok {
		c.dup++
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true, true
	}

	c := &call{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	func() {
		defer c.wg.Done()
		c.val, c.err = fn()
	}()

	g.mu.Lock()
	if g.calls[key] == c {
		delete(g.calls, key)
	}
	shared = c.dup > 0
	g.mu.Unlock()

	return c.val, c.err, shared, false
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
