package openai_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/ai"
	aiopenai "github.com/bryanwahyu/siren-alert/internal/infra/ai/openai"
)

const incident = "2023.10.27 14:00경 외부 비계 해체 작업 중 벽이음이 조기 철거되어 비계가 붕괴됨."

const reportJSON = `{
  "title": "비계 붕괴 사고",
  "overview": "외부 비계 해체 중 붕괴",
  "cause": "벽이음 조기 철거",
  "legalBasis": "산업안전보건법 제38조",
  "penalty": "5년 이하의 징역 또는 5천만원 이하의 벌금",
  "prevention": "해체 순서 준수",
  "checklist": ["벽이음 상태 확인", "작업계획서 작성", "보호구 착용"]
}`

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

type fakeServer struct {
	*httptest.Server
	calls   atomic.Int32
	lastReq map[string]any
	auth    string
}

func newFakeServer(t *testing.T, status int, body string) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.calls.Add(1)
		fs.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&fs.lastReq)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func newClient(fs *fakeServer, key string) *aiopenai.Client {
	return aiopenai.NewClient(aiopenai.Config{APIKey: key, BaseURL: fs.URL + "/v1"})
}

func TestAnalyzeText_Success(t *testing.T) {
	fs := newFakeServer(t, http.StatusOK, completionBody(reportJSON))

	res, err := newClient(fs, "sk-test").AnalyzeText(t.Context(), incident)
	require.NoError(t, err)

	assert.Equal(t, &domain.AnalysisResult{
		Title:      "비계 붕괴 사고",
		Overview:   "외부 비계 해체 중 붕괴",
		Cause:      "벽이음 조기 철거",
		LegalBasis: "산업안전보건법 제38조",
		Penalty:    "5년 이하의 징역 또는 5천만원 이하의 벌금",
		Prevention: "해체 순서 준수",
		Checklist:  []string{"벽이음 상태 확인", "작업계획서 작성", "보호구 착용"},
	}, res)
	assert.Equal(t, int32(1), fs.calls.Load())
	assert.Equal(t, "Bearer sk-test", fs.auth)
}

func TestAnalyzeText_RequestShape(t *testing.T) {
	fs := newFakeServer(t, http.StatusOK, completionBody(reportJSON))

	_, err := newClient(fs, "sk-test").AnalyzeText(t.Context(), incident)
	require.NoError(t, err)

	req := fs.lastReq
	assert.Equal(t, "gpt-4o-mini", req["model"])
	assert.InDelta(t, 0.2, req["temperature"], 0.0001)

	msgs := req["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Contains(t, msgs[0].(map[string]any)["content"], "Korean")
	assert.Equal(t, "Incident text:\n"+incident, msgs[1].(map[string]any)["content"])

	format := req["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	js := format["json_schema"].(map[string]any)
	assert.Equal(t, "disaster_analysis", js["name"])
	assert.Equal(t, true, js["strict"])

	schema := js["schema"].(map[string]any)
	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t, []any{"title", "overview", "cause", "legalBasis", "penalty", "prevention", "checklist"}, schema["required"])
	props := schema["properties"].(map[string]any)
	assert.Len(t, props, 7)
	assert.Equal(t, "array", props["checklist"].(map[string]any)["type"])
	assert.Equal(t, "string", props["penalty"].(map[string]any)["type"])
}

func TestAnalyzeText_EmptyInputMakesNoCall(t *testing.T) {
	fs := newFakeServer(t, http.StatusOK, completionBody(reportJSON))
	client := newClient(fs, "sk-test")

	for _, in := range []string{"", " ", "\n\t  "} {
		_, err := client.AnalyzeText(t.Context(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "input %q", in)
	}
	assert.Equal(t, int32(0), fs.calls.Load())
}

func TestAnalyzeText_MissingKey(t *testing.T) {
	fs := newFakeServer(t, http.StatusOK, completionBody(reportJSON))

	_, err := newClient(fs, "").AnalyzeText(t.Context(), incident)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, int32(0), fs.calls.Load())
}

func TestAnalyzeText_UpstreamStatus(t *testing.T) {
	fs := newFakeServer(t, http.StatusInternalServerError, `upstream exploded`)

	_, err := newClient(fs, "sk-test").AnalyzeText(t.Context(), incident)
	require.ErrorIs(t, err, domain.ErrUpstream)

	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusInternalServerError, upErr.StatusCode)
	assert.Equal(t, "upstream exploded", upErr.Body)
	assert.Equal(t, int32(1), fs.calls.Load(), "no retry")
}

func TestAnalyzeText_APIErrorBody(t *testing.T) {
	body := `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`
	fs := newFakeServer(t, http.StatusUnauthorized, body)

	_, err := newClient(fs, "sk-bad").AnalyzeText(t.Context(), incident)

	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Equal(t, "Incorrect API key provided", upErr.Message)
	assert.Equal(t, body, upErr.Body)
}

func TestAnalyzeText_QuotaExceeded(t *testing.T) {
	fs := newFakeServer(t, http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"requests"}}`)

	_, err := newClient(fs, "sk-test").AnalyzeText(t.Context(), incident)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestAnalyzeText_MalformedContent(t *testing.T) {
	fs := newFakeServer(t, http.StatusOK, completionBody(`{"title": "비계`))

	res, err := newClient(fs, "sk-test").AnalyzeText(t.Context(), incident)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrResponseFormat)
}

func TestAnalyzeText_MissingContent(t *testing.T) {
	fs := newFakeServer(t, http.StatusOK, completionBody(""))

	_, err := newClient(fs, "sk-test").AnalyzeText(t.Context(), incident)
	assert.ErrorIs(t, err, domain.ErrResponseFormat)
}

func TestAnalyzeText_NoChoices(t *testing.T) {
	fs := newFakeServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`)

	_, err := newClient(fs, "sk-test").AnalyzeText(t.Context(), incident)
	assert.ErrorIs(t, err, domain.ErrResponseFormat)
}

func TestAnalyzeText_UnreachableServer(t *testing.T) {
	fs := newFakeServer(t, http.StatusOK, completionBody(reportJSON))
	client := newClient(fs, "sk-test")
	fs.Close()

	_, err := client.AnalyzeText(t.Context(), incident)
	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 0, upErr.StatusCode)
}
