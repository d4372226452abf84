package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/xid"

	"github.com/sakif/social-feed/internal/event"
	"github.com/sakif/social-feed/internal/handler"
)

// maxBodyBytes caps the request body the adapter reads into an event.
const maxBodyBytes = 1 << 20

// eventAdapter serves an event handler over net/http.
//
// FLOW:
//
//	*http.Request → event.Request + event.Invocation
//	              → handler.Handle
//	              → event.Response → status, headers, body
//
// The handler decides everything about the response, CORS included. The
// adapter only translates.
func eventAdapter(name string, h handler.EventHandler, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeEnvelope(w, logger, event.Response{
					StatusCode: http.StatusRequestEntityTooLarge,
					Headers:    map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*"},
					Body:       `{"error":"Request body too large"}`,
				})
				return
			}
			logger.Warn("reading request body", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		res := h.Handle(r.Context(), toEvent(r, body), invocation(r, name))
		writeEnvelope(w, logger, res)
	}
}

// toEvent flattens an http.Request into an event. Multi-valued query
// parameters and headers keep their first value.
func toEvent(r *http.Request, body []byte) event.Request {
	return event.Request{
		HTTPMethod:            r.Method,
		Body:                  string(body),
		QueryStringParameters: firstValues(r.URL.Query()),
		Headers:               firstValues(r.Header),
	}
}

func firstValues(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// invocation reuses chi's request id so adapter and handler log lines
// correlate. Outside the router there is none, so one is generated.
func invocation(r *http.Request, name string) event.Invocation {
	id := chimiddleware.GetReqID(r.Context())
	if id == "" {
		id = xid.New().String()
	}
	return event.Invocation{RequestID: id, FunctionName: name}
}

func writeEnvelope(w http.ResponseWriter, logger *slog.Logger, res event.Response) {
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(res.StatusCode)
	if _, err := io.WriteString(w, res.Body); err != nil {
		// Headers are already sent; nothing left to do but log.
		logger.Warn("writing response body", slog.String("error", err.Error()))
	}
}
