package bootstrap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/siren-alert/internal/bootstrap"
	"github.com/bryanwahyu/siren-alert/internal/config"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
)

func TestOpenStoresMemory(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	st, err := bootstrap.OpenStores(t.Context(), cfg)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Health.Check(t.Context()))
	page, err := st.Cases.Paginate(t.Context(), cases.Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
}

func TestOpenDBRejectsMemory(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	_, err = bootstrap.OpenDB(t.Context(), cfg)
	assert.Error(t, err)
}

func TestAIServiceWithoutKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_VISION_API_KEY", "")
	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	svc, err := bootstrap.AIService(t.Context(), cfg)
	require.NoError(t, err)

	_, err = svc.AnalyzeText(t.Context(), "비계 붕괴")
	assert.ErrorIs(t, err, ai.ErrConfiguration)
	_, err = svc.AnalyzeImage(t.Context(), "aGVsbG8=")
	assert.ErrorIs(t, err, ai.ErrConfiguration)
}

func TestSourcesFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
collector:
  timezone: Mars/Olympus
  sources:
    - name: kosha-board
      kind: board
      url: https://example.com/board
      itemSelector: "table tbody tr"
    - name: kosha-rss
      kind: feed
      url: https://example.com/rss
`))
	require.NoError(t, err)

	srcs := bootstrap.Sources(cfg)
	require.Len(t, srcs, 2)
	assert.Equal(t, "kosha-board", srcs[0].Name())
	assert.Equal(t, "kosha-rss", srcs[1].Name())

	_, offset := time.Date(2023, 1, 1, 0, 0, 0, 0, bootstrap.Location(cfg)).Zone()
	assert.Equal(t, 9*3600, offset)
}
