package videoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// captureTransport stubs HTTP round trips and records what was sent.
type captureTransport struct {
	responses map[string]responseStub
	requests  []*http.Request
	bodies    [][]byte
}

type responseStub struct {
	status int
	header http.Header
	body   []byte
}

func newCaptureTransport() *captureTransport {
	return &captureTransport{responses: map[string]responseStub{}}
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
	}
	c.requests = append(c.requests, req)
	c.bodies = append(c.bodies, body)
	if stub, ok := c.responses[req.Method+" "+req.URL.Path]; ok {
		return stub.toResponse(), nil
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("not found")),
	}, nil
}

func (c *captureTransport) setJSONResponse(methodAndPath string, status int, payload any) {
	body, _ := json.Marshal(payload)
	c.responses[methodAndPath] = responseStub{
		status: status,
		header: http.Header{"Content-Type": []string{"application/json"}},
		body:   body,
	}
}

func (c *captureTransport) setBinaryResponse(methodAndPath, mime string, data []byte) {
	c.responses[methodAndPath] = responseStub{
		status: http.StatusOK,
		header: http.Header{"Content-Type": []string{mime}},
		body:   data,
	}
}

func (s responseStub) toResponse() *http.Response {
	header := http.Header{}
	for k, values := range s.header {
		cloned := make([]string, len(values))
		copy(cloned, values)
		header[k] = cloned
	}
	return &http.Response{
		StatusCode: s.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(s.body)),
	}
}

func (c *captureTransport) lastRequest(t *testing.T) (*http.Request, []byte) {
	t.Helper()
	if len(c.requests) == 0 {
		t.Fatalf("expected at least one request")
	}
	return c.requests[len(c.requests)-1], c.bodies[len(c.bodies)-1]
}

// spyTransport implements Transport and records invocations.
type spyTransport struct {
	calls     int
	createReq CreateRequest
	remixID   string
	prompt    string
	jobID     string
	variant   ContentVariant
	job       *Job
	blob      *Blob
	err       error
}

func (s *spyTransport) Create(ctx context.Context, req CreateRequest) (*Job, error) {
	s.calls++
	s.createReq = req
	return s.job, s.err
}

func (s *spyTransport) Remix(ctx context.Context, id, prompt string) (*Job, error) {
	s.calls++
	s.remixID = id
	s.prompt = prompt
	return s.job, s.err
}

func (s *spyTransport) Retrieve(ctx context.Context, id string) (*Job, error) {
	s.calls++
	s.jobID = id
	return s.job, s.err
}

func (s *spyTransport) Delete(ctx context.Context, id string) error {
	s.calls++
	s.jobID = id
	return s.err
}

func (s *spyTransport) DownloadContent(ctx context.Context, id string, variant ContentVariant) (*Blob, error) {
	s.calls++
	s.jobID = id
	s.variant = variant
	return s.blob, s.err
}

var sampleVideoJSON = map[string]any{
	"id":          "video_123",
	"object":      "video",
	"model":       "sora-2",
	"status":      "completed",
	"progress":    100,
	"created_at":  1712000000,
	"completed_at": 1712000100,
	"expires_at":  1712003600,
	"seconds":     "8",
	"size":        "1280x720",
}
