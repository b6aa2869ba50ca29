package videoapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sorabridge/internal/infra"
)

// Mode selects which transport a client uses.
type Mode string

const (
	// ModeProviderDirect talks straight to the provider with a raw API key.
	ModeProviderDirect Mode = "provider-direct"
	// ModeBackendProxy talks to a trusted backend that holds the real
	// key; the client only presents a credential hash.
	ModeBackendProxy Mode = "backend-proxy"
)

// Config configures a Client. Credential belongs to provider-direct
// mode and CredentialHash to backend-proxy mode; supplying the one the
// mode cannot use is rejected so a build can never populate both paths.
type Config struct {
	Mode Mode

	// Credential is the raw provider API key (provider-direct only).
	Credential string

	// CredentialHash is the SHA-256 hex proof of authorization sent to
	// the backend proxy (backend-proxy only). Never a raw secret.
	CredentialHash string

	// BaseURL overrides the provider endpoint in direct mode and is the
	// backend origin in proxy mode (default http://localhost:8080).
	BaseURL string

	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is the mode-agnostic media job client. It normalizes and
// validates inputs, then delegates to its transport; the success shape
// and the error taxonomy are identical for both modes.
type Client struct {
	transport Transport
	logger    infra.Logger
}

const defaultProxyBaseURL = "http://localhost:8080"

// NewClient builds a client for the configured mode.
func NewClient(cfg Config) (*Client, error) {
	logger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	var transport Transport
	switch cfg.Mode {
	case ModeProviderDirect:
		if cfg.CredentialHash != "" {
			return nil, &ConfigurationError{Reason: "credential hash has no use in provider-direct mode"}
		}
		transport = newProviderTransport(cfg.Credential, cfg.BaseURL, httpClient)
	case ModeBackendProxy:
		if cfg.Credential != "" {
			return nil, &ConfigurationError{Reason: "raw credential must never be supplied in backend-proxy mode"}
		}
		baseURL := strings.TrimRight(cfg.BaseURL, "/")
		if baseURL == "" {
			baseURL = defaultProxyBaseURL
		}
		transport = &proxyTransport{
			baseURL:        baseURL,
			credentialHash: cfg.CredentialHash,
			httpClient:     httpClient,
		}
	default:
		return nil, &ConfigurationError{Reason: "unknown mode " + string(cfg.Mode)}
	}
	return &Client{transport: transport, logger: logger}, nil
}

// NewClientWithTransport wires a caller-supplied transport. Used by
// tests and by embedders that already hold a transport implementation.
func NewClientWithTransport(t Transport) *Client {
	return &Client{transport: t, logger: zerolog.New(io.Discard)}
}

// Create submits a new generation job. Validation failures surface as
// ValidationError before the transport is touched.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Job, error) {
	req, err := normalizeCreateRequest(req)
	if err != nil {
		return nil, err
	}
	job, err := c.transport.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("job_id", job.ID).Str("model", job.Model).Msg("video job created")
	return job, nil
}

// Remix submits a derivative generation based on an existing job.
func (c *Client) Remix(ctx context.Context, id, prompt string) (*Job, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, &ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	return c.transport.Remix(ctx, id, prompt)
}

// Retrieve fetches the current job record.
func (c *Client) Retrieve(ctx context.Context, id string) (*Job, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	return c.transport.Retrieve(ctx, id)
}

// Delete removes the job remotely. Racing deletes are left to the
// remote system's own semantics.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := requireJobID(id); err != nil {
		return err
	}
	return c.transport.Delete(ctx, id)
}

// DownloadContent fetches one binary asset of a completed job. An empty
// variant means VariantVideo.
func (c *Client) DownloadContent(ctx context.Context, id string, variant ContentVariant) (*Blob, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	if variant == "" {
		variant = VariantVideo
	}
	switch variant {
	case VariantVideo, VariantThumbnail, VariantSpritesheet:
	default:
		return nil, &ValidationError{Field: "variant", Reason: "unknown content variant " + string(variant)}
	}
	return c.transport.DownloadContent(ctx, id, variant)
}

func requireJobID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	return nil
}
