package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGatewayConfig is matched by every ConfigError.
var ErrGatewayConfig = errors.New("payment gateway is not configured")

// ErrInvalidRequest is returned when a payment request fails local validation.
var ErrInvalidRequest = errors.New("invalid payment request")

// ConfigError names the options that must be set before the gateway can be called.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrGatewayConfig, strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrGatewayConfig
}

// RequestError is returned when the provider cannot be reached, answers with a
// non-2xx status, or rejects the call with a non-success code.
type RequestError struct {
	Op         string
	StatusCode int
	Code       string
	Desc       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("payos %s: %v", e.Op, e.Err)
	case e.Code != "":
		return fmt.Sprintf("payos %s: status %d, code %s: %s", e.Op, e.StatusCode, e.Code, e.Desc)
	default:
		return fmt.Sprintf("payos %s: status %d", e.Op, e.StatusCode)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
