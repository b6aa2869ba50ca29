package videoapi

import "fmt"

// ValidationError reports an input that was rejected before any network
// call was attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports a client that cannot operate as configured,
// such as provider-direct mode without a credential. It is raised before
// any call attempt.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// InvalidCredentialError means the provider rejected the supplied
// credential (HTTP 401/403 or an invalid_api_key code).
type InvalidCredentialError struct {
	Message string
}

func (e *InvalidCredentialError) Error() string {
	if e.Message == "" {
		return "invalid credential"
	}
	return e.Message
}

// TransportError is any other failure surfaced by the provider SDK or
// the backend proxy. Error() returns exactly the human-readable message
// so callers can present it as-is.
type TransportError struct {
	// Status is the upstream HTTP status when one was observed, 0 otherwise.
	Status  int
	Message string
	cause   error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.cause }
