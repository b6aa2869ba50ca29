package videoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// Wire names shared with the backend proxy.
const (
	proxyHashField  = "passwordHash"
	proxyHashHeader = "x-password-hash"
	proxyHashQuery  = "password-hash"
)

// proxyTransport speaks the backend's HTTP surface. It carries the
// credential hash on an operation-specific channel (form field, JSON
// body, header, or query string) and never sees a raw secret.
type proxyTransport struct {
	baseURL        string
	credentialHash string
	httpClient     *http.Client
}

func (t *proxyTransport) Create(ctx context.Context, req CreateRequest) (*Job, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if t.credentialHash != "" {
		if err := mw.WriteField(proxyHashField, t.credentialHash); err != nil {
			return nil, &TransportError{Message: "encode request: " + err.Error(), cause: err}
		}
	}
	fields := [][2]string{
		{"model", req.Model},
		{"prompt", req.Prompt},
		{"size", req.Size},
		{"seconds", req.Seconds},
	}
	for _, field := range fields {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return nil, &TransportError{Message: "encode request: " + err.Error(), cause: err}
		}
	}
	if ref := req.InputReference; ref != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="input_reference"; filename=%q`, ref.Filename))
		header.Set("Content-Type", ref.MIME)
		part, err := mw.CreatePart(header)
		if err != nil {
			return nil, &TransportError{Message: "encode request: " + err.Error(), cause: err}
		}
		if _, err := part.Write(ref.Data); err != nil {
			return nil, &TransportError{Message: "encode request: " + err.Error(), cause: err}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Message: "encode request: " + err.Error(), cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/videos", &buf)
	if err != nil {
		return nil, &TransportError{Message: "build request: " + err.Error(), cause: err}
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	return t.doJob(httpReq)
}

func (t *proxyTransport) Remix(ctx context.Context, id, prompt string) (*Job, error) {
	payload := map[string]string{"prompt": prompt}
	if t.credentialHash != "" {
		payload[proxyHashField] = t.credentialHash
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Message: "encode request: " + err.Error(), cause: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.videoURL(id)+"/remix", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Message: "build request: " + err.Error(), cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return t.doJob(httpReq)
}

func (t *proxyTransport) Retrieve(ctx context.Context, id string) (*Job, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.videoURL(id), nil)
	if err != nil {
		return nil, &TransportError{Message: "build request: " + err.Error(), cause: err}
	}
	t.setHashHeader(httpReq)
	return t.doJob(httpReq)
}

func (t *proxyTransport) Delete(ctx context.Context, id string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.videoURL(id), nil)
	if err != nil {
		return &TransportError{Message: "build request: " + err.Error(), cause: err}
	}
	t.setHashHeader(httpReq)
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Message: "backend request failed: " + err.Error(), cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeProxyError(resp)
	}
	return nil
}

func (t *proxyTransport) DownloadContent(ctx context.Context, id string, variant ContentVariant) (*Blob, error) {
	query := url.Values{}
	query.Set("variant", string(variant))
	if t.credentialHash != "" {
		query.Set(proxyHashQuery, t.credentialHash)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.videoURL(id)+"/content?"+query.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Message: "build request: " + err.Error(), cause: err}
	}
	t.setHashHeader(httpReq)
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Message: "backend request failed: " + err.Error(), cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeProxyError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: "read response: " + err.Error(), cause: err}
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = defaultVariantMIME(variant)
	}
	return &Blob{Data: data, MIME: mime}, nil
}

func (t *proxyTransport) videoURL(id string) string {
	return t.baseURL + "/api/videos/" + url.PathEscape(id)
}

func (t *proxyTransport) setHashHeader(req *http.Request) {
	if t.credentialHash != "" {
		req.Header.Set(proxyHashHeader, t.credentialHash)
	}
}

func (t *proxyTransport) doJob(req *http.Request) (*Job, error) {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Message: "backend request failed: " + err.Error(), cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeProxyError(resp)
	}
	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, &TransportError{Message: "decode response: " + err.Error(), cause: err}
	}
	return &job, nil
}

// decodeProxyError applies one policy to every operation: try the JSON
// error field, fall back to the HTTP status text.
func decodeProxyError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return &TransportError{Status: resp.StatusCode, Message: payload.Error}
	}
	return &TransportError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}
