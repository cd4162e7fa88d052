package ecos

import (
	"encoding/json"
	"errors"
	"fmt"
)

// envelope is the vendor's uniform wrapper around every response body.
// Success is a pointer so a body without the field can be told apart from
// success=false.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// decodeEnvelope classifies a completed vendor response into a payload or an
// error. The checks form a strict priority chain: undecodable body, then
// non-2xx status, then business failure, then success. Promotion of HTTP 401
// to UnauthorizedError happens in the client, not here.
func decodeEnvelope(statusCode int, body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &InvalidEnvelopeError{Err: err}
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, &TransportError{
			StatusCode: statusCode,
			Err:        fmt.Errorf("status %d %s", statusCode, env.Message),
		}
	}
	if env.Success == nil {
		return nil, &InvalidEnvelopeError{Err: errors.New("missing success field")}
	}
	if !*env.Success {
		return nil, &ApiResponseError{Code: env.Code, Message: env.Message}
	}
	return env.Data, nil
}
