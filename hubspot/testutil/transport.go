package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/hubspotkit/httpclient"
	"github.com/kbukum/hubspotkit/hubspot"
)

// Step is one scripted transport result.
type Step struct {
	Response *httpclient.Response
	Err      error
	// Delay is waited before answering. A delay beyond the request timeout
	// ends in a timeout error; the caller's context can cut it short.
	Delay time.Duration
}

// Respond returns a step answering status with body.
func Respond(status int, body string) Step {
	return Step{Response: &httpclient.Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
	}}
}

// RespondJSON returns a step answering status with v encoded as JSON.
func RespondJSON(status int, v any) Step {
	b, err := json.Marshal(v)
	if err != nil {
		return Step{Err: err}
	}
	return Respond(status, string(b))
}

// Timeout returns a step failing with a transport timeout.
func Timeout() Step {
	return Step{Err: httpclient.NewTimeoutError(errors.New("context deadline exceeded"))}
}

// ConnectionRefused returns a step failing with a connection error.
func ConnectionRefused() Step {
	return Step{Err: httpclient.NewConnectionError(errors.New("connect: connection refused"))}
}

// HandlerFunc answers requests that are not covered by the script.
type HandlerFunc func(req httpclient.Request) Step

// FakeTransport is a hubspot.Transport answering from a script. Queued steps
// are consumed in order; once the queue is empty the handler answers.
type FakeTransport struct {
	mu       sync.Mutex
	queue    []Step
	handler  HandlerFunc
	requests []httpclient.Request
}

var _ hubspot.Transport = (*FakeTransport)(nil)

// NewFakeTransport creates a transport that plays steps in order and then
// answers 200 with an empty JSON object.
func NewFakeTransport(steps ...Step) *FakeTransport {
	return &FakeTransport{
		queue:   steps,
		handler: func(httpclient.Request) Step { return Respond(http.StatusOK, `{}`) },
	}
}

// NewFixtureTransport creates a transport answering CRM endpoints from the
// canned fixtures. It needs no script and is the offline mode of the debug
// command.
func NewFixtureTransport() *FakeTransport {
	f := NewFakeTransport()
	f.handler = fixtureHandler(FixtureContacts(), FixtureCompanies())
	return f
}

// Enqueue appends steps to the script.
func (f *FakeTransport) Enqueue(steps ...Step) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, steps...)
}

// Handle sets the handler used once the script is exhausted.
func (f *FakeTransport) Handle(h HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = h
}

// Do records req and answers with the next step.
func (f *FakeTransport) Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, cloneRequest(req))
	var step Step
	scripted := len(f.queue) > 0
	if scripted {
		step = f.queue[0]
		f.queue = f.queue[1:]
	}
	handler := f.handler
	f.mu.Unlock()

	if !scripted {
		step = handler(req)
	}

	if step.Delay > 0 {
		wait, timedOut := step.Delay, false
		if req.Timeout > 0 && wait > req.Timeout {
			wait, timedOut = req.Timeout, true
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, httpclient.NewCanceledError(ctx.Err())
		case <-timer.C:
		}
		if timedOut {
			return nil, httpclient.NewTimeoutError(context.DeadlineExceeded)
		}
	} else if err := ctx.Err(); err != nil {
		return nil, httpclient.NewCanceledError(err)
	}
	return step.Response, step.Err
}

// Requests returns the requests received so far.
func (f *FakeTransport) Requests() []httpclient.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]httpclient.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Calls returns the number of requests received.
func (f *FakeTransport) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// LastRequest returns the most recent request.
func (f *FakeTransport) LastRequest() (httpclient.Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return httpclient.Request{}, false
	}
	return f.requests[len(f.requests)-1], true
}

// Pending returns the number of unplayed steps.
func (f *FakeTransport) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

func cloneRequest(req httpclient.Request) httpclient.Request {
	req.Headers = cloneStrings(req.Headers)
	req.Query = cloneStrings(req.Query)
	if req.Body != nil {
		req.Body = bytes.Clone(req.Body)
	}
	return req
}

func cloneStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// fixtureHandler answers search, create, update and health requests.
func fixtureHandler(contacts, companies []hubspot.Object) HandlerFunc {
	return func(req httpclient.Request) Step {
		path := req.Path
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		switch {
		case req.Method == http.MethodPost && strings.HasSuffix(path, "/contacts/search"):
			return searchStep(contacts, req)
		case req.Method == http.MethodPost && strings.HasSuffix(path, "/companies/search"):
			return searchStep(companies, req)
		case req.Method == http.MethodPost && strings.HasSuffix(path, "/contacts"):
			return writeStep(http.StatusCreated, "60901", req)
		case req.Method == http.MethodPatch && strings.Contains(path, "/contacts/"):
			return writeStep(http.StatusOK, path[strings.LastIndexByte(path, '/')+1:], req)
		case req.Method == http.MethodGet && strings.HasSuffix(path, "/contacts"):
			return RespondJSON(http.StatusOK, map[string]any{"results": []hubspot.Object{}})
		default:
			return RespondJSON(http.StatusNotFound, NewErrorBody("OBJECT_NOT_FOUND", "resource not found"))
		}
	}
}

func searchStep(objs []hubspot.Object, req httpclient.Request) Step {
	var sr hubspot.SearchRequest
	if len(req.Body) > 0 {
		if err := json.Unmarshal(req.Body, &sr); err != nil {
			return RespondJSON(http.StatusBadRequest, NewErrorBody("VALIDATION_ERROR", err.Error()))
		}
	}
	return RespondJSON(http.StatusOK, search(objs, sr))
}

func writeStep(status int, id string, req httpclient.Request) Step {
	var body struct {
		Properties map[string]any `json:"properties"`
	}
	if len(req.Body) > 0 {
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return RespondJSON(http.StatusBadRequest, NewErrorBody("VALIDATION_ERROR", err.Error()))
		}
	}
	now := time.Now().UTC()
	return RespondJSON(status, hubspot.Object{
		ID:         id,
		Properties: body.Properties,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}
