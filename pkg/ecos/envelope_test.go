package ecos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		data, err := decodeEnvelope(200, []byte(`{"code":0,"message":"success","success":true,"data":{"a":1}}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(data))
	})

	t.Run("SuccessWithoutData", func(t *testing.T) {
		data, err := decodeEnvelope(200, []byte(`{"code":0,"message":"success","success":true}`))
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := decodeEnvelope(200, []byte(`<html>oops</html>`))
		var envErr *InvalidEnvelopeError
		require.ErrorAs(t, err, &envErr)
	})

	t.Run("NotJSONBeatsStatus", func(t *testing.T) {
		// an undecodable body wins over the status code, even on a 5xx
		_, err := decodeEnvelope(500, []byte(`<html>oops</html>`))
		var envErr *InvalidEnvelopeError
		require.ErrorAs(t, err, &envErr)
		var transportErr *TransportError
		assert.False(t, errors.As(err, &transportErr), "should not be a transport error")
	})

	t.Run("Non2xx", func(t *testing.T) {
		// the vendor's 404 catch-all body is valid JSON without envelope
		// fields, so it classifies on the status code
		body := []byte(`{"timestamp":1700000000000,"status":404,"error":"Not Found","message":"","path":"/nope"}`)
		_, err := decodeEnvelope(404, body)
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, 404, transportErr.StatusCode)
	})

	t.Run("MissingSuccess", func(t *testing.T) {
		_, err := decodeEnvelope(200, []byte(`{"code":0,"message":"success"}`))
		var envErr *InvalidEnvelopeError
		require.ErrorAs(t, err, &envErr)
	})

	t.Run("BusinessFailure", func(t *testing.T) {
		_, err := decodeEnvelope(200, []byte(`{"code":20450,"message":"Home does not exist","success":false}`))
		var apiErr *ApiResponseError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 20450, apiErr.Code)
		assert.Equal(t, "Home does not exist", apiErr.Message)
	})

	t.Run("SuccessFalseWithZeroCode", func(t *testing.T) {
		// success=false wins even when code is 0
		_, err := decodeEnvelope(200, []byte(`{"code":0,"message":"","success":false}`))
		var apiErr *ApiResponseError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 0, apiErr.Code)
	})
}
