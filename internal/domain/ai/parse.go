package ai

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ParseResult decodes model output into an AnalysisResult. The content must
// be a single JSON object carrying exactly the required fields.
func ParseResult(content string) (*AnalysisResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ResponseFormatf("response missing content")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, ResponseFormatf("content is not a JSON object: %v", err)
	}
	for _, name := range RequiredFields {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, ResponseFormatf("missing field %q", name)
		}
	}
	if len(fields) != len(RequiredFields) {
		return nil, ResponseFormatf("unexpected fields in response")
	}

	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	var res AnalysisResult
	if err := dec.Decode(&res); err != nil {
		return nil, ResponseFormatf("content does not match schema: %v", err)
	}
	if res.Checklist == nil {
		res.Checklist = []string{}
	}
	return &res, nil
}
