// Package helpdesk provides typed methods for the helpdesk REST API,
// one per remote resource operation.
//
// Every method calls through the client facade: reads are cached and
// retried, creates and replies go out exactly once, updates and deletes
// are retried on transient failures. The methods themselves are thin —
// build a request, decode a response — and carry no failure handling of
// their own.
package helpdesk
