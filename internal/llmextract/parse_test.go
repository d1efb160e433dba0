package llmextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChunkResponse_PlainJSON(t *testing.T) {
	items, err := parseChunkResponse(`[{"number":"123","type":"Main Line","classification":"Primary"}]`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "123", items[0].Number)
}

func TestParseChunkResponse_StripsCodeFence(t *testing.T) {
	items, err := parseChunkResponse("```json\n[{\"number\":\"123\",\"type\":\"Fax\",\"classification\":\"Non-Business\"}]\n```")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fax", items[0].Type)
}

func TestParseChunkResponse_RepairsTrailingComma(t *testing.T) {
	items, err := parseChunkResponse(`[{"number":"123","type":"Main Line","classification":"Primary",}]`)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
