package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/siren-alert/internal/cli"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
)

type stubAnalyzer struct {
	gotText  string
	gotImage string
}

func (s *stubAnalyzer) AnalyzeText(_ context.Context, text string) (*ai.AnalysisResult, error) {
	s.gotText = text
	if text == "" {
		return nil, ai.InvalidInputf("text input is empty")
	}
	return &ai.AnalysisResult{
		Title:      "비계 붕괴 추락 재해",
		Overview:   "외부 비계 해체 중 붕괴",
		Cause:      "벽이음 조기 철거",
		LegalBasis: "산업안전보건기준에 관한 규칙 제63조",
		Penalty:    "",
		Prevention: "해체 순서 준수",
		Checklist:  []string{"벽이음 상태 확인", "안전대 착용"},
	}, nil
}

func (s *stubAnalyzer) AnalyzeImage(ctx context.Context, image string) (*ai.ImageAnalysis, error) {
	s.gotImage = image
	res, _ := s.AnalyzeText(ctx, "ocr")
	return &ai.ImageAnalysis{Analysis: *res, OCRText: "비계 붕괴 원문"}, nil
}

func run(t *testing.T, stub *stubAnalyzer, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	cmd := cli.NewRootCmdForTest(stub)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeTextRendersReport(t *testing.T) {
	stub := &stubAnalyzer{}
	out, err := run(t, stub, "analyze", "text", "비계", "해체", "중", "추락")
	require.NoError(t, err)
	assert.Equal(t, "비계 해체 중 추락", stub.gotText)
	assert.Contains(t, out, "비계 붕괴 추락 재해")
	assert.Contains(t, out, "현장 자율 점검 체크리스트")
	assert.Contains(t, out, "안전대 착용")
	assert.NotContains(t, out, "과태료 및 처벌")
}

func TestAnalyzeTextJSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incident.txt")
	require.NoError(t, os.WriteFile(path, []byte("지게차 충돌"), 0o600))

	stub := &stubAnalyzer{}
	out, err := run(t, stub, "analyze", "text", "--file", path, "--json")
	require.NoError(t, err)
	assert.Equal(t, "지게차 충돌", stub.gotText)

	var res ai.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"벽이음 상태 확인", "안전대 착용"}, res.Checklist)
}

func TestAnalyzeTextEmptyFails(t *testing.T) {
	_, err := run(t, &stubAnalyzer{}, "analyze", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrInvalidInput)
}

func TestAnalyzeImageEncodesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.png")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	stub := &stubAnalyzer{}
	out, err := run(t, stub, "analyze", "image", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", stub.gotImage)
	assert.Contains(t, out, "OCR 원문")
	assert.Contains(t, out, "비계 붕괴 원문")
}

func TestAnalyzeImageRequiresFile(t *testing.T) {
	_, err := run(t, &stubAnalyzer{}, "analyze", "image")
	assert.Error(t, err)
}

func TestMCPServeCommandExists(t *testing.T) {
	_, err := run(t, &stubAnalyzer{}, "mcp", "serve", "--help")
	assert.NoError(t, err)
}

func TestMigrateRejectsMemoryDriver(t *testing.T) {
	_, err := run(t, &stubAnalyzer{}, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory")
}
