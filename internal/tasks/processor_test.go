package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	var payload TaskPayload
	err := decodePayload(map[string]interface{}{
		"type":       "sanction_letter",
		"sanctionId": "sanction-1",
	}, &payload)
	require.NoError(t, err)
	assert.Equal(t, "sanction_letter", payload.Type)
	assert.Equal(t, "sanction-1", payload.SanctionID)
}

func TestDecodePayloadIgnoresUnknownKeys(t *testing.T) {
	var payload TaskPayload
	err := decodePayload(map[string]interface{}{
		"type":  "document_sweep",
		"extra": "ignored",
	}, &payload)
	require.NoError(t, err)
	assert.Equal(t, "document_sweep", payload.Type)
	assert.Empty(t, payload.SanctionID)
}
