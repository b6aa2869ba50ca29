package videoapi

// JobStatus is the provider-owned lifecycle state of a generation job.
// The set is defined by the provider; the client passes it through.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is the uniform job record returned by every operation regardless
// of which transport served it. It mirrors the provider's video object
// and is never cached or mutated by the client.
type Job struct {
	ID            string    `json:"id"`
	Status        JobStatus `json:"status"`
	Model         string    `json:"model"`
	Progress      int64     `json:"progress"`
	Seconds       string    `json:"seconds"`
	Size          string    `json:"size"`
	CreatedAt     int64     `json:"created_at"`
	CompletedAt   int64     `json:"completed_at,omitempty"`
	ExpiresAt     int64     `json:"expires_at,omitempty"`
	RemixedFromID string    `json:"remixed_from_video_id,omitempty"`
	Error         *JobError `json:"error,omitempty"`
}

// JobError carries the provider's failure detail for a failed job.
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ContentVariant selects which binary asset of a completed job to fetch.
type ContentVariant string

const (
	VariantVideo       ContentVariant = "video"
	VariantThumbnail   ContentVariant = "thumbnail"
	VariantSpritesheet ContentVariant = "spritesheet"
)

// Variants lists every downloadable asset kind.
var Variants = []ContentVariant{VariantVideo, VariantThumbnail, VariantSpritesheet}

// Blob is a downloaded binary asset.
type Blob struct {
	Data []byte
	MIME string
}

// InputReference is an optional image attachment steering a create call.
type InputReference struct {
	Filename string
	MIME     string
	Data     []byte
}

// CreateRequest captures the inputs for a new generation job. Seconds is
// carried as text because both transports serialize it that way.
type CreateRequest struct {
	Model          string
	Prompt         string
	Size           string
	Seconds        string
	InputReference *InputReference
}
