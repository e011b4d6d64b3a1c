package middleware

import "net/http"

// Chain applies middleware in the order given: the first one sees the
// request first.
//
//	handler := Chain(mux,
//	    CORS(origins),            // outermost
//	    AuthMiddleware(verifier), // resolves the caller
//	    RequestLogging,           // sees the caller's id
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
