// Package event defines the request and response shapes the handlers speak.
//
// An Event looks like an HTTP request that has already been taken apart:
// method, raw body string, query parameters and headers. A Response is the
// matching envelope: status code, headers and a body string. Handlers only
// ever see these two types, never net/http, so the same handler runs behind
// the local chi adapter or any other invoker that can produce an Event.
package event

import (
	"strings"
)

// Request is the inbound event.
type Request struct {
	HTTPMethod            string            `json:"httpMethod"`
	Body                  string            `json:"body"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Headers               map[string]string `json:"headers"`
}

// Method returns the upper-cased method, defaulting to GET when empty.
func (r Request) Method() string {
	m := strings.ToUpper(strings.TrimSpace(r.HTTPMethod))
	if m == "" {
		return "GET"
	}
	return m
}

// Invocation carries per-call metadata used for log correlation only.
type Invocation struct {
	RequestID    string `json:"request_id"`
	FunctionName string `json:"function_name"`
}

// Response is the outbound envelope. IsBase64Encoded is always false here.
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}
