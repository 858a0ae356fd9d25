package wire

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrMissingAPIKey   = errors.New("missing API key")
	ErrEmptyResponse   = errors.New("no content in response")
	ErrInvalidResponse = errors.New("invalid response format")
)

// ConfigError reports a missing or invalid credential for a provider. It is
// fatal at startup; the process exits without attempting a provider call.
type ConfigError struct {
	Provider string
	Message  string
	Missing  bool // true when the failure is an absent API key
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Provider, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	if target == ErrMissingAPIKey {
		return e.Missing
	}
	_, ok := target.(*ConfigError)
	return ok
}

// TransportError wraps a network, timeout, or request construction failure.
// The conversation loop reports it and keeps accepting input.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError reports a non-2xx status, an error payload, or a malformed
// body from the API. The conversation loop reports it and keeps accepting
// input. Err holds the underlying decode failure when the body wasn't the
// provider's error shape at all.
type ProviderError struct {
	StatusCode int
	Type       string
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Type != "":
		return fmt.Sprintf("provider error [%d] %s: %s", e.StatusCode, e.Type, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("provider error [%d]: %s", e.StatusCode, e.Message)
	case e.Type != "":
		return fmt.Sprintf("provider error %s: %s", e.Type, e.Message)
	default:
		return fmt.Sprintf("provider error: %s", e.Message)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }
