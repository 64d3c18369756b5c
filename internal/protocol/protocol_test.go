package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(CmdImageImport, &ImageImportRequest{Path: "/tmp/base.tar", Tag: "base:latest"})
	require.NoError(t, err)

	env, payload, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, CmdImageImport, env.Command)

	req, err := DecodePayload[ImageImportRequest](payload)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/base.tar", req.Path)
	assert.Equal(t, "base:latest", req.Tag)
}

func TestEncodeNilPayload(t *testing.T) {
	data, err := Encode(CmdShutdown, nil)
	require.NoError(t, err)

	env, payload, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, CmdShutdown, env.Command)
	assert.Empty(t, payload)
}

func TestDecodeMalformed(t *testing.T) {
	_, _, err := Decode([]byte("{not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeMissingCommand(t *testing.T) {
	_, _, err := Decode([]byte(`{"payload": {}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDecodePayloadMissing(t *testing.T) {
	_, err := DecodePayload[BuildRequest](nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
}
