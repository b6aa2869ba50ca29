package videoapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// providerTransport calls the provider's native SDK with the caller's
// raw credential. Retries inside the SDK are disabled; retry policy
// belongs to the caller.
type providerTransport struct {
	api           openai.Client
	hasCredential bool
}

func newProviderTransport(credential, baseURL string, httpClient *http.Client) *providerTransport {
	opts := []option.RequestOption{
		// Always pin the key, even when empty, so the SDK never falls
		// back to ambient environment credentials.
		option.WithAPIKey(credential),
		option.WithMaxRetries(0),
		option.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &providerTransport{
		api:           openai.NewClient(opts...),
		hasCredential: credential != "",
	}
}

func (t *providerTransport) precheck() error {
	if !t.hasCredential {
		return &ConfigurationError{Reason: "provider-direct mode requires a credential"}
	}
	return nil
}

func (t *providerTransport) Create(ctx context.Context, req CreateRequest) (*Job, error) {
	if err := t.precheck(); err != nil {
		return nil, err
	}
	params := openai.VideoNewParams{
		Prompt:  req.Prompt,
		Model:   openai.VideoModel(req.Model),
		Seconds: openai.VideoSeconds(req.Seconds),
		Size:    openai.VideoSize(req.Size),
	}
	if ref := req.InputReference; ref != nil {
		params.InputReference = openai.VideoNewParamsInputReferenceUnion{
			OfFile: openai.File(bytes.NewReader(ref.Data), ref.Filename, ref.MIME),
		}
	}
	video, err := t.api.Videos.New(ctx, params)
	if err != nil {
		return nil, translateProviderError(err)
	}
	return jobFromVideo(video), nil
}

func (t *providerTransport) Remix(ctx context.Context, id, prompt string) (*Job, error) {
	if err := t.precheck(); err != nil {
		return nil, err
	}
	video, err := t.api.Videos.Remix(ctx, id, openai.VideoRemixParams{Prompt: prompt})
	if err != nil {
		return nil, translateProviderError(err)
	}
	return jobFromVideo(video), nil
}

func (t *providerTransport) Retrieve(ctx context.Context, id string) (*Job, error) {
	if err := t.precheck(); err != nil {
		return nil, err
	}
	video, err := t.api.Videos.Get(ctx, id)
	if err != nil {
		return nil, translateProviderError(err)
	}
	return jobFromVideo(video), nil
}

func (t *providerTransport) Delete(ctx context.Context, id string) error {
	if err := t.precheck(); err != nil {
		return err
	}
	if _, err := t.api.Videos.Delete(ctx, id); err != nil {
		return translateProviderError(err)
	}
	return nil
}

func (t *providerTransport) DownloadContent(ctx context.Context, id string, variant ContentVariant) (*Blob, error) {
	if err := t.precheck(); err != nil {
		return nil, err
	}
	resp, err := t.api.Videos.DownloadContent(ctx, id, openai.VideoDownloadContentParams{
		Variant: openai.VideoDownloadContentParamsVariant(variant),
	})
	if err != nil {
		return nil, translateProviderError(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: "unexpected error while communicating with provider", cause: err}
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = defaultVariantMIME(variant)
	}
	return &Blob{Data: data, MIME: mime}, nil
}

// jobFromVideo bridges the SDK's video object into the client's uniform
// job record. Field names already agree with the proxy's JSON, so this
// is a shape conversion only.
func jobFromVideo(v *openai.Video) *Job {
	job := &Job{
		ID:            v.ID,
		Status:        JobStatus(v.Status),
		Model:         string(v.Model),
		Progress:      v.Progress,
		Seconds:       string(v.Seconds),
		Size:          string(v.Size),
		CreatedAt:     v.CreatedAt,
		CompletedAt:   v.CompletedAt,
		ExpiresAt:     v.ExpiresAt,
		RemixedFromID: v.RemixedFromVideoID,
	}
	if v.Error.Code != "" || v.Error.Message != "" {
		job.Error = &JobError{Code: v.Error.Code, Message: v.Error.Message}
	}
	return job
}

// translateProviderError reclassifies SDK failures. A rejected
// credential becomes InvalidCredentialError; other provider responses
// keep their message; anything else gets the fixed fallback message
// with the cause preserved for unwrapping.
func translateProviderError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusUnauthorized ||
			apierr.StatusCode == http.StatusForbidden ||
			apierr.Code == "invalid_api_key" {
			return &InvalidCredentialError{Message: "provider rejected the credential"}
		}
		msg := apierr.Message
		if msg == "" {
			msg = http.StatusText(apierr.StatusCode)
		}
		return &TransportError{Status: apierr.StatusCode, Message: msg, cause: err}
	}
	return &TransportError{Message: "unexpected error while communicating with provider", cause: err}
}

func defaultVariantMIME(variant ContentVariant) string {
	switch variant {
	case VariantThumbnail:
		return "image/webp"
	case VariantSpritesheet:
		return "image/jpeg"
	default:
		return "video/mp4"
	}
}
