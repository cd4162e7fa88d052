package ecos

import (
	"fmt"
)

// Vendor business codes the client knows how to translate. Any other code is
// surfaced untouched as an *ApiResponseError.
const (
	codeAuthenticationFailed        = 20414
	codeUnauthorizedDevice          = 20424
	codeHomeDoesNotExist            = 20450
	codeParameterVerificationFailed = 20404
)

// InitializationError is returned by New when neither a valid datacenter nor
// an explicit URL was supplied.
type InitializationError struct {
	Reason string
}

func (e *InitializationError) Error() string {
	return "ecos: " + e.Reason
}

// TransportError indicates the HTTP round-trip failed or the vendor answered
// with a non-2xx status. StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("ecos: request failed: %v", e.Err)
	}
	return fmt.Sprintf("ecos: HTTP error %d: %v", e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// InvalidEnvelopeError indicates the response body could not be decoded as
// the vendor's envelope shape.
type InvalidEnvelopeError struct {
	Err error
}

func (e *InvalidEnvelopeError) Error() string {
	return fmt.Sprintf("ecos: invalid envelope: %v", e.Err)
}

func (e *InvalidEnvelopeError) Unwrap() error { return e.Err }

// ApiResponseError indicates the envelope parsed but the vendor reported a
// business failure. Code and Message are carried verbatim.
type ApiResponseError struct {
	Code    int
	Message string
}

func (e *ApiResponseError) Error() string {
	return fmt.Sprintf("ecos: API call failed: %d %s", e.Code, e.Message)
}

// UnauthorizedError indicates the access token was missing, invalid or
// expired. The vendor signals this with an HTTP 401, not a body code.
type UnauthorizedError struct {
	Err error
}

func (e *UnauthorizedError) Error() string {
	return "ecos: unauthorized"
}

func (e *UnauthorizedError) Unwrap() error { return e.Err }

// AuthenticationError indicates the login credentials were rejected
// (vendor code 20414).
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return "ecos: authentication failed"
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// HomeDoesNotExistError indicates the given home id is unknown to the
// account (vendor code 20450).
type HomeDoesNotExistError struct {
	HomeID string
	Err    error
}

func (e *HomeDoesNotExistError) Error() string {
	return fmt.Sprintf("ecos: home %s does not exist", e.HomeID)
}

func (e *HomeDoesNotExistError) Unwrap() error { return e.Err }

// UnauthorizedDeviceError indicates the given device is unknown or not
// authorized for the account (vendor code 20424).
type UnauthorizedDeviceError struct {
	DeviceID string
	Err      error
}

func (e *UnauthorizedDeviceError) Error() string {
	return fmt.Sprintf("ecos: device %s is not authorized", e.DeviceID)
}

func (e *UnauthorizedDeviceError) Unwrap() error { return e.Err }

// ParameterVerificationFailedError indicates the vendor rejected a request
// parameter, typically an out-of-range period type (vendor code 20404).
type ParameterVerificationFailedError struct {
	Err error
}

func (e *ParameterVerificationFailedError) Error() string {
	return "ecos: parameter verification failed"
}

func (e *ParameterVerificationFailedError) Unwrap() error { return e.Err }
