// Package events defines the payloads published on the in-process event bus.
package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when an HTTP request is received.
// Context carries the request context.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted after the handler completes.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}

// QueryStart is emitted before a query document is executed.
type QueryStart struct {
	Query         string
	OperationName string
}

// QueryFinish is emitted after a query document finishes executing.
// Err is the error that aborted the execution, if any.
type QueryFinish struct {
	Query         string
	OperationName string
	Err           error
	Duration      time.Duration
}
