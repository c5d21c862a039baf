package middleware

import "net/http"

// Chain wraps h with the given middlewares so that the first listed runs
// first on the way in.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
