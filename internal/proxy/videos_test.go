package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"sorabridge/internal/infra"
	"sorabridge/internal/videoapi"
)

var testHash = videoapi.HashCredential("opensesame")

// providerStub fakes the upstream provider API and counts calls.
type providerStub struct {
	calls int
}

func (p *providerStub) RoundTrip(req *http.Request) (*http.Response, error) {
	p.calls++
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
		req.Body.Close()
	}
	jsonResp := func(status int, payload any) *http.Response {
		body, _ := json.Marshal(payload)
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(bytes.NewReader(body)),
		}
	}
	video := map[string]any{
		"id":       "video_123",
		"object":   "video",
		"model":    "sora-2",
		"status":   "queued",
		"progress": 0,
		"seconds":  "8",
		"size":     "1280x720",
	}
	switch req.Method + " " + req.URL.Path {
	case "POST /v1/videos", "GET /v1/videos/video_123", "POST /v1/videos/video_123/remix":
		return jsonResp(http.StatusOK, video), nil
	case "DELETE /v1/videos/video_123":
		return jsonResp(http.StatusOK, map[string]any{"id": "video_123", "deleted": true, "object": "video.deleted"}), nil
	case "GET /v1/videos/video_123/content":
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"image/webp"}},
			Body:       io.NopCloser(bytes.NewReader([]byte{0xaa, 0xbb})),
		}, nil
	default:
		return jsonResp(http.StatusNotFound, map[string]any{
			"error": map[string]any{"message": "Video not found", "type": "invalid_request_error"},
		}), nil
	}
}

func newTestHandler(t *testing.T, stub *providerStub, passwordHash string) http.Handler {
	t.Helper()
	client, err := videoapi.NewClient(videoapi.Config{
		Mode:       videoapi.ModeProviderDirect,
		Credential: "sk-server",
		HTTPClient: &http.Client{Transport: stub},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	logger := zerolog.New(io.Discard)
	app := NewApp(client, passwordHash, 0, logger)
	return NewRouter(app, &infra.Config{})
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, mw.FormDataContentType()
}

func TestCreateVideoForwardsToProvider(t *testing.T) {
	stub := &providerStub{}
	handler := newTestHandler(t, stub, testHash)

	body, contentType := multipartBody(t, map[string]string{
		"passwordHash": testHash,
		"model":        "sora-2",
		"prompt":       "a red fox at dawn",
		"size":         "1280x720",
		"seconds":      "8",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/videos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var job videoapi.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.ID != "video_123" || job.Status != videoapi.JobQueued {
		t.Fatalf("job mismatch: %#v", job)
	}
	if stub.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", stub.calls)
	}
}

func TestCreateVideoRejectsWrongHash(t *testing.T) {
	stub := &providerStub{}
	handler := newTestHandler(t, stub, testHash)

	body, contentType := multipartBody(t, map[string]string{
		"passwordHash": videoapi.HashCredential("wrong"),
		"model":        "sora-2",
		"prompt":       "a red fox at dawn",
		"size":         "1280x720",
		"seconds":      "8",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/videos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["error"] != "unauthorized" {
		t.Fatalf("error = %q", payload["error"])
	}
	if stub.calls != 0 {
		t.Fatalf("provider calls = %d, want 0", stub.calls)
	}
}

func TestCreateVideoValidatesBeforeProvider(t *testing.T) {
	stub := &providerStub{}
	handler := newTestHandler(t, stub, testHash)

	body, contentType := multipartBody(t, map[string]string{
		"passwordHash": testHash,
		"model":        "sora-2",
		"prompt":       "a red fox at dawn",
		"size":         "1280x720",
		"seconds":      "banana",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/videos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if stub.calls != 0 {
		t.Fatalf("provider calls = %d, want 0", stub.calls)
	}
}

func TestGetVideoPassesProviderErrorThrough(t *testing.T) {
	stub := &providerStub{}
	handler := newTestHandler(t, stub, testHash)

	req := httptest.NewRequest(http.MethodGet, "/api/videos/video_404", nil)
	req.Header.Set("x-password-hash", testHash)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["error"] != "Video not found" {
		t.Fatalf("error = %q", payload["error"])
	}
}

func TestDeleteVideoReturnsNoContent(t *testing.T) {
	stub := &providerStub{}
	handler := newTestHandler(t, stub, testHash)

	req := httptest.NewRequest(http.MethodDelete, "/api/videos/video_123", nil)
	req.Header.Set("x-password-hash", testHash)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRemixVideoAcceptsJSONBody(t *testing.T) {
	stub := &providerStub{}
	handler := newTestHandler(t, stub, testHash)

	payload := `{"prompt":"slower pan","passwordHash":"` + testHash + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/videos/video_123/remix", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestDownloadContentRelaysBinary(t *testing.T) {
	stub := &providerStub{}
	handler := newTestHandler(t, stub, testHash)

	req := httptest.NewRequest(http.MethodGet, "/api/videos/video_123/content?variant=thumbnail&password-hash="+testHash, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/webp" {
		t.Fatalf("content type = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), []byte{0xaa, 0xbb}) {
		t.Fatalf("body mismatch: %v", rec.Body.Bytes())
	}
}

func TestAuthDisabledWhenNoHashConfigured(t *testing.T) {
	stub := &providerStub{}
	handler := newTestHandler(t, stub, "")

	req := httptest.NewRequest(http.MethodGet, "/api/videos/video_123", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
