package videoapi

import "context"

// Transport performs the five job operations against one backing path.
// Implementations must return the same shapes for the same underlying
// data so callers cannot tell which path served a request.
type Transport interface {
	Create(ctx context.Context, req CreateRequest) (*Job, error)
	Remix(ctx context.Context, id, prompt string) (*Job, error)
	Retrieve(ctx context.Context, id string) (*Job, error)
	Delete(ctx context.Context, id string) error
	DownloadContent(ctx context.Context, id string, variant ContentVariant) (*Blob, error)
}
