package llmextract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelsoft/contactscout/internal/interfaces"
	"github.com/fennelsoft/contactscout/internal/models"
)

type scriptedClient struct {
	responses []string
	calls     int
}

func (s *scriptedClient) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, interfaces.TokenUsage, error) {
	r := s.responses[s.calls]
	s.calls++
	return r, interfaces.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

func testConfig() Config {
	return Config{ChunkSize: 10, MaxChunksPerDomain: 10, MaxRetriesOnMismatch: 1, Temperature: 0, MaxTokens: 1024}
}

func TestExtract_HappyPathMatchesEveryItem(t *testing.T) {
	candidates := []models.PhoneCandidateItem{
		{ExtractedNumberString: "+1 555 123 4567", SourcePathfulURL: "https://a.com/contact"},
		{ExtractedNumberString: "+1 555 987 6543", SourcePathfulURL: "https://a.com/contact"},
	}
	client := &scriptedClient{responses: []string{
		`[{"number":"+1 555 123 4567","type":"Main Line","classification":"Primary"},{"number":"+1 555 987 6543","type":"Sales","classification":"Secondary"}]`,
	}}

	result := Extract(context.Background(), candidates, client, testConfig())
	require.Len(t, result.Outputs, 2)
	assert.Equal(t, "Main Line", result.Outputs[0].Type)
	assert.False(t, result.LLMErrorEncounteredAll)
	assert.Equal(t, 15, result.Usage.TotalTokens)
}

func TestExtract_MismatchRetriesThenSubstitutesErrorItem(t *testing.T) {
	candidates := []models.PhoneCandidateItem{
		{ExtractedNumberString: "+1 555 123 4567", SourcePathfulURL: "https://a.com/contact"},
	}
	client := &scriptedClient{responses: []string{
		`[{"number":"+1 555 000 0000","type":"Main Line","classification":"Primary"}]`,
		`[{"number":"+1 555 111 1111","type":"Main Line","classification":"Primary"}]`,
	}}

	result := Extract(context.Background(), candidates, client, testConfig())
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, "Error_PersistentMismatch", result.Outputs[0].Type)
	assert.Equal(t, "Non-Business", result.Outputs[0].Classification)
	assert.Equal(t, 2, client.calls)
}

func TestExtract_ParsesCodeFencedResponse(t *testing.T) {
	candidates := []models.PhoneCandidateItem{
		{ExtractedNumberString: "030 12345678", SourcePathfulURL: "https://a.de/kontakt"},
	}
	client := &scriptedClient{responses: []string{
		"```json\n[{\"number\":\"030 12345678\",\"type\":\"Main Line\",\"classification\":\"Primary\"}]\n```",
	}}

	result := Extract(context.Background(), candidates, client, testConfig())
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, "Primary", result.Outputs[0].Classification)
}

func TestExtract_HardParseErrorMarksChunkErrored(t *testing.T) {
	candidates := []models.PhoneCandidateItem{
		{ExtractedNumberString: "030 12345678", SourcePathfulURL: "https://a.de/kontakt"},
	}
	client := &scriptedClient{responses: []string{"not json at all {{{"}}

	result := Extract(context.Background(), candidates, client, testConfig())
	assert.True(t, result.LLMErrorEncounteredAll)
	assert.NotEmpty(t, result.ErrorMessages)
}
