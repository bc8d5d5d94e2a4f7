// Package middleware stores global middleware and the global error handler.
//
// These intercept requests to handle cross-cutting concerns such as request
// ids, request logging, tracing, metrics, CORS and panic recovery.
package middleware
