// Package errs defines the API's error type and its constructors.
//
// Every failure that reaches a client is an *HTTPError. Its JSON form is
// always a single message object:
//
//	{ "msg": "Article not found" }
//
// Status and Code never leave the process; they drive the response status
// and the structured error log.
package errs
