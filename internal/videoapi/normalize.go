package videoapi

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`^\d+x\d+$`)

// Models the client accepts for create calls.
const (
	ModelSora2    = "sora-2"
	ModelSora2Pro = "sora-2-pro"
)

// MaxInputReferenceBytes bounds the optional image attachment.
const MaxInputReferenceBytes = 32 << 20

var allowedReferenceMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// NormalizeDuration parses a duration given as a decimal string and
// returns its canonical text form. Both transports serialize seconds as
// text, so the canonical form stays a string rather than an int.
func NormalizeDuration(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", &ValidationError{Field: "seconds", Reason: "must be a whole number"}
	}
	if n <= 0 {
		return "", &ValidationError{Field: "seconds", Reason: "must be greater than zero"}
	}
	return strconv.Itoa(n), nil
}

// NormalizeSize checks a size string of the form <width>x<height>.
// Range limits are the provider's concern, not the client's.
func NormalizeSize(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !sizePattern.MatchString(trimmed) {
		return "", &ValidationError{Field: "size", Reason: `must look like "1280x720"`}
	}
	return trimmed, nil
}

func normalizeCreateRequest(req CreateRequest) (CreateRequest, error) {
	switch req.Model {
	case ModelSora2, ModelSora2Pro:
	default:
		return req, &ValidationError{Field: "model", Reason: "unknown model " + strconv.Quote(req.Model)}
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return req, &ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	size, err := NormalizeSize(req.Size)
	if err != nil {
		return req, err
	}
	req.Size = size
	seconds, err := NormalizeDuration(req.Seconds)
	if err != nil {
		return req, err
	}
	req.Seconds = seconds
	if ref := req.InputReference; ref != nil {
		if len(ref.Data) == 0 {
			return req, &ValidationError{Field: "input_reference", Reason: "attachment is empty"}
		}
		if len(ref.Data) > MaxInputReferenceBytes {
			return req, &ValidationError{Field: "input_reference", Reason: "attachment exceeds 32 MiB"}
		}
		if _, ok := allowedReferenceMIMEs[ref.MIME]; !ok {
			return req, &ValidationError{Field: "input_reference", Reason: "unsupported media type " + strconv.Quote(ref.MIME)}
		}
	}
	return req, nil
}

// HashCredential derives the SHA-256 hex digest a backend-proxy caller
// presents instead of the raw shared secret. The raw secret itself never
// travels on the proxy path.
func HashCredential(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
