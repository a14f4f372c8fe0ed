package bedrock

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"invomail/internal/config"
	"invomail/internal/extract"
	"invomail/internal/port"
)

const defaultModelID = "eu.amazon.nova-lite-v1:0"

// Inference settings are fixed: zero temperature keeps extraction
// deterministic across runs.
const (
	temperature = 0
	topP        = 0.75
)

func init() {
	extract.RegisterProvider("bedrock", func(cfg *config.ExtractProviderConfig) (port.DocumentModel, error) {
		return NewModel(cfg)
	})
}

// converseAPI is the slice of the Bedrock runtime client the model uses;
// tests substitute a fake.
type converseAPI interface {
	Converse(ctx context.Context, input *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Model implements port.DocumentModel using the Bedrock Converse API with
// direct PDF document input.
type Model struct {
	client  converseAPI
	modelID string
}

// NewModel creates a Bedrock-backed document model from a provider config.
func NewModel(cfg *config.ExtractProviderConfig) (*Model, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return NewModelWithClient(bedrockruntime.NewFromConfig(awsCfg), cfg.ModelID), nil
}

// NewModelWithClient creates a model on an existing Converse client (for testing).
func NewModelWithClient(client converseAPI, modelID string) *Model {
	if modelID == "" {
		modelID = defaultModelID
	}
	return &Model{client: client, modelID: modelID}
}

func (m *Model) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if len(input.Documents) > extract.MaxDocumentsPerRequest {
		return nil, fmt.Errorf("bedrock accepts at most %d documents per request, got %d",
			extract.MaxDocumentsPerRequest, len(input.Documents))
	}

	content := make([]types.ContentBlock, 0, len(input.Documents)+1)
	content = append(content, &types.ContentBlockMemberText{Value: input.Prompt})
	for _, doc := range input.Documents {
		content = append(content, &types.ContentBlockMemberDocument{
			Value: types.DocumentBlock{
				Format: types.DocumentFormatPdf,
				Name:   aws.String(doc.Name),
				Source: &types.DocumentSourceMemberBytes{Value: doc.Data},
			},
		})
	}

	out, err := m.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(m.modelID),
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: content,
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(temperature),
			TopP:        aws.Float32(topP),
		},
	})
	if err != nil {
		var throttled *types.ThrottlingException
		if errors.As(err, &throttled) {
			return nil, extract.NewRateLimitError("bedrock", err, 0)
		}
		return nil, fmt.Errorf("calling bedrock model %q: %w", m.modelID, err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return nil, fmt.Errorf("empty response from bedrock model %q", m.modelID)
	}
	text, ok := msg.Value.Content[0].(*types.ContentBlockMemberText)
	if !ok {
		return nil, fmt.Errorf("unexpected content block in response from bedrock model %q", m.modelID)
	}

	return &port.ExtractOutput{
		Text:      text.Value,
		ModelUsed: m.modelID,
	}, nil
}
