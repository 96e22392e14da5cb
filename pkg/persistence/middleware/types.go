package middleware

import "github.com/aretw0/pixelwall/pkg/ports"

// Middleware allows wrapping a GridStore to add behavior.
type Middleware func(ports.GridStore) ports.GridStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.GridStore, mws ...Middleware) ports.GridStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
