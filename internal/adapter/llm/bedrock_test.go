//go:build bedrock

package llm

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolwire/internal/domain"
)

type fakeConverseClient struct {
	output *bedrockruntime.ConverseOutput
	err    error
	input  *bedrockruntime.ConverseInput
}

func (c *fakeConverseClient) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	c.input = params
	return c.output, c.err
}

func TestBedrockGenerate(t *testing.T) {
	client := &fakeConverseClient{
		output: &bedrockruntime.ConverseOutput{
			Output: &types.ConverseOutputMemberMessage{
				Value: types.Message{
					Role: types.ConversationRoleAssistant,
					Content: []types.ContentBlock{
						&types.ContentBlockMemberText{Value: "42"},
					},
				},
			},
		},
	}
	p := newBedrockProviderWithClient("bedrock", "model-id", client, testLogger())

	out, err := p.Generate(context.Background(), "meaning of life?", domain.GenerateOptions{
		MaxTokens:   128,
		Temperature: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	require.NotNil(t, client.input)
	assert.Equal(t, "model-id", *client.input.ModelId)
	require.Len(t, client.input.Messages, 1)
	assert.Equal(t, types.ConversationRoleUser, client.input.Messages[0].Role)
	assert.Equal(t, int32(128), *client.input.InferenceConfig.MaxTokens)
}

func TestBedrockGenerateEmptyOutput(t *testing.T) {
	client := &fakeConverseClient{output: &bedrockruntime.ConverseOutput{}}
	p := newBedrockProviderWithClient("bedrock", "m", client, testLogger())

	out, err := p.Generate(context.Background(), "x", domain.GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
