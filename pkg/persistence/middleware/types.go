// Package middleware decorates ProjectStore implementations with
// cross-cutting behavior such as at-rest encryption. Middlewares
// compose: Chain(a, b)(store) applies a outermost.
package middleware

import "github.com/scenesmith/scenesmith/pkg/ports"

// Middleware wraps a ProjectStore to add behavior around it.
type Middleware func(ports.ProjectStore) ports.ProjectStore

// Chain composes middlewares so the first argument sees calls first.
func Chain(mws ...Middleware) Middleware {
	return func(store ports.ProjectStore) ports.ProjectStore {
		for i := len(mws) - 1; i >= 0; i-- {
			store = mws[i](store)
		}
		return store
	}
}
