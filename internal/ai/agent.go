package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"dotation-service/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

type AgentService interface {
	InterpretDeliveryNote(ctx context.Context, noteText string, pendingCatalog string) (*core.ReceptionNote, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretDeliveryNote turns a free-text delivery note (a supplier email, a
// scanned remission transcript) into a structured ReceptionNote. The result
// is a proposal for human review; nothing is committed here.
func (a *Agent) InterpretDeliveryNote(ctx context.Context, noteText string, pendingCatalog string) (*core.ReceptionNote, error) {
	prompt := fmt.Sprintf(`You are a warehouse clerk for an employee uniform and equipment program.
Your goal is to read a supplier's delivery note and extract what was delivered against an open purchase order.
You MUST match articles to the pending list below.
Rules:
1. Use article names from the pending list; copy them exactly.
2. Include a size only when the note clearly states one; otherwise leave it empty and the system will distribute across sizes.
3. Quantities are positive integers of units delivered.
4. Never invent articles or quantities that the note does not mention.
5. Provide a confidence score (0.0-1.0).
6. Explain your reasoning.

Pending on this order:
%s

Delivery note: %s`, pendingCatalog, noteText)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "delivery_note_reading",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A structured reading of a supplier delivery note"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var note core.ReceptionNote
	if err := json.Unmarshal([]byte(content), &note); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	note.Normalize()
	if err := note.Validate(); err != nil {
		return nil, fmt.Errorf("delivery note validation failed: %w", err)
	}

	return &note, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.ReceptionNote
	return reflector.Reflect(v)
}
