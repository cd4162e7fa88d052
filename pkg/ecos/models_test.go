package ecos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeUnmarshal(t *testing.T) {
	t.Run("SharedDevicesName", func(t *testing.T) {
		var h Home
		require.NoError(t, json.Unmarshal([]byte(
			`{"homeId":"1","homeName":null,"homeType":0,"homeDeviceNumber":1}`), &h))
		assert.Equal(t, SharedDevicesName, h.Name, "homeType 0 should force the shared name")

		// the forced name wins even over a vendor-supplied one
		require.NoError(t, json.Unmarshal([]byte(
			`{"homeId":"1","homeName":"whatever","homeType":0}`), &h))
		assert.Equal(t, SharedDevicesName, h.Name)
	})

	t.Run("RegularHome", func(t *testing.T) {
		var h Home
		require.NoError(t, json.Unmarshal([]byte(
			`{"homeId":"2","homeName":"My Home","homeType":1,"longitude":null,"latitude":null}`), &h))
		assert.Equal(t, "My Home", h.Name)
		assert.Nil(t, h.Longitude)
	})
}

func TestDeviceUnmarshal(t *testing.T) {
	raw := []byte(`{
		"deviceId": "1234567890123456789",
		"deviceAliasName": "My Device",
		"state": 0,
		"vpp": false,
		"type": 1,
		"deviceSn": "SHC000000000000001",
		"agentId": "",
		"lon": 0.0,
		"lat": 0.0,
		"master": 0,
		"wifiSn": "azerty123456789azertyu",
		"resourceSeriesId": 101,
		"deviceType": null
	}`)

	var d Device
	require.NoError(t, json.Unmarshal(raw, &d))
	assert.Equal(t, "1234567890123456789", d.ID)
	assert.Equal(t, "My Device", d.Alias)
	assert.Equal(t, "SHC000000000000001", d.Serial)

	// fields outside the typed schema land in Extra, typed ones do not
	require.Contains(t, d.Extra, "wifiSn")
	assert.Equal(t, `"azerty123456789azertyu"`, string(d.Extra["wifiSn"]))
	assert.Contains(t, d.Extra, "resourceSeriesId")
	assert.NotContains(t, d.Extra, "deviceId")
	assert.NotContains(t, d.Extra, "deviceSn")
}
