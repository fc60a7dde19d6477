package prompt

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// SchemaName nama json_schema yang dikirim ke model
const SchemaName = "disaster_analysis"

// GetSystemPrompt provides strict directions for the structured report.
func GetSystemPrompt() string {
	return strings.Join([]string{
		"You are an industrial safety compliance expert.",
		"Analyze the provided incident text and return a structured report.",
		"Output must match the JSON schema exactly.",
		"Write all field values in Korean.",
	}, " ")
}

// GetUserPrompt wraps the incident text.
func GetUserPrompt(text string) string {
	return fmt.Sprintf("Incident text:\n%s", text)
}

// Schema returns the strict schema of AnalysisResult. Additional properties
// are forbidden and every field is required.
func Schema() *jsonschema.Definition {
	str := func(desc string) jsonschema.Definition {
		return jsonschema.Definition{Type: jsonschema.String, Description: desc}
	}
	return &jsonschema.Definition{
		Type:                 jsonschema.Object,
		AdditionalProperties: false,
		Properties: map[string]jsonschema.Definition{
			"title":      str("Short incident title."),
			"overview":   str("Incident summary."),
			"cause":      str("Root cause analysis."),
			"legalBasis": str("Relevant legal basis."),
			"penalty":    str("Penalty or sanctions."),
			"prevention": str("Prevention measures."),
			"checklist": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "On-site checklist items.",
			},
		},
		Required: []string{"title", "overview", "cause", "legalBasis", "penalty", "prevention", "checklist"},
	}
}
