package collector

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/failures"
	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
	"github.com/bryanwahyu/siren-alert/internal/infra/db/memory"
)

type staticSource struct {
	name  string
	items []cases.SourceItem
	err   error
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Fetch(context.Context) ([]cases.SourceItem, error) {
	return s.items, s.err
}

type fixedSettings struct{ st settings.Settings }

func (f fixedSettings) Get(context.Context) (settings.Settings, error) { return f.st, nil }

type fakeOCR struct {
	text   string
	err    error
	images []string
}

func (f *fakeOCR) ExtractText(_ context.Context, img string) (string, error) {
	f.images = append(f.images, img)
	return f.text, f.err
}

type fakeImages map[string][]byte

func (f fakeImages) FetchImage(_ context.Context, url string) ([]byte, error) {
	b, ok := f[url]
	if !ok {
		return nil, errors.New("404")
	}
	return b, nil
}

func newService(store *memory.Store, st settings.Settings, sources ...cases.Source) *Service {
	return &Service{
		Sources:     sources,
		Repo:        store.Cases(),
		FailureRepo: store.Failures(),
		Settings:    fixedSettings{st},
		Clock:       clockwork.NewFakeClockAt(time.Date(2024, 3, 4, 4, 0, 0, 0, time.UTC)),
	}
}

func TestSyncCreatesPendingCasesAndDedups(t *testing.T) {
	store := memory.New()
	st := settings.Default()
	st.Collection.OCREnabled = false
	src := staticSource{name: "board", items: []cases.SourceItem{
		{Title: "비계 붕괴", Link: "http://x/1", Date: "2024.03.01", Location: "부산", Summary: "비계 해체 중 붕괴"},
		{Title: "지게차 충돌", Link: "http://x/2"},
		{Title: "  ", Link: "http://x/3"},
	}}
	svc := newService(store, st, src)
	ctx := t.Context()

	res, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Fetched: 3, Created: 2, Skipped: 1}, res)

	page, err := store.Cases().Paginate(ctx, cases.Query{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	byTitle := map[string]*cases.Case{}
	for _, c := range page.Data {
		byTitle[c.Title] = c
	}
	first := byTitle["비계 붕괴"]
	require.NotNil(t, first)
	assert.Equal(t, cases.StatusPending, first.AnalysisStatus)
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, "부산", first.Location)
	assert.Equal(t, "비계 해체 중 붕괴", first.OCRText)
	assert.Equal(t, "board", first.Source)
	want := src.items[0]
	want.Source = "board"
	assert.Equal(t, want.Hash(), first.Hash)

	second := byTitle["지게차 충돌"]
	require.NotNil(t, second)
	assert.Equal(t, "2024-03-04", second.Date)
	assert.Equal(t, unknownLocation, second.Location)
	assert.Equal(t, "지게차 충돌", second.OCRText)

	res, err = svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Fetched: 3, Created: 0, Skipped: 3}, res)
}

func TestSyncWithoutDedupCreatesAgain(t *testing.T) {
	store := memory.New()
	st := settings.Default()
	st.Collection.Dedup = false
	st.Collection.OCREnabled = false
	svc := newService(store, st, staticSource{name: "feed", items: []cases.SourceItem{{Title: "a", Link: "l"}}})

	for range 2 {
		_, err := svc.Sync(t.Context())
		require.NoError(t, err)
	}
	page, err := store.Cases().Paginate(t.Context(), cases.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestSyncRunsOCROnImages(t *testing.T) {
	store := memory.New()
	ocr := &fakeOCR{text: "이미지 속 재해 내용"}
	svc := newService(store, settings.Default(), staticSource{name: "board", items: []cases.SourceItem{
		{Title: "붕괴", Link: "1", Summary: "요약", ImageURL: "http://img/1.png"},
		{Title: "끼임", Link: "2", Summary: "컨베이어 요약", ImageURL: "http://img/missing.png"},
	}})
	svc.OCR = ocr
	svc.Images = fakeImages{"http://img/1.png": []byte("png")}
	ctx := t.Context()

	res, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, []string{base64.StdEncoding.EncodeToString([]byte("png"))}, ocr.images)

	page, err := store.Cases().Paginate(ctx, cases.Query{})
	require.NoError(t, err)
	var failedCase *cases.Case
	for _, c := range page.Data {
		switch c.Title {
		case "붕괴":
			assert.Equal(t, "이미지 속 재해 내용", c.OCRText)
		case "끼임":
			assert.Equal(t, "컨베이어 요약", c.OCRText)
			failedCase = c
		}
	}
	require.NotNil(t, failedCase)

	fails, err := store.Failures().ListByCase(ctx, string(failedCase.ID), 5)
	require.NoError(t, err)
	require.Len(t, fails, 1)
	assert.Equal(t, failures.PhaseCollect, fails[0].Phase)
}

func TestSyncOCRErrorKeepsSummary(t *testing.T) {
	store := memory.New()
	svc := newService(store, settings.Default(), staticSource{name: "board", items: []cases.SourceItem{
		{Title: "t", Link: "1", Summary: "s", ImageURL: "http://img/1.png"},
	}})
	svc.OCR = &fakeOCR{err: ai.ErrEmptyResult}
	svc.Images = fakeImages{"http://img/1.png": []byte("png")}

	res, err := svc.Sync(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Zero(t, res.Failed)
}

func TestSyncContinuesAfterSourceError(t *testing.T) {
	store := memory.New()
	st := settings.Default()
	st.Collection.OCREnabled = false
	svc := newService(store, st,
		staticSource{name: "down", err: errors.New("connection refused")},
		staticSource{name: "feed", items: []cases.SourceItem{{Title: "a", Link: "l"}}},
	)

	res, err := svc.Sync(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "down: connection refused")
}

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := map[string]string{
		"2024-02-03":                      "2024-02-03",
		"2024.02.03":                      "2024-02-03",
		"2024/02/03":                      "2024-02-03",
		"2024-02-03T10:00:00+09:00":       "2024-02-03",
		"Mon, 05 Feb 2024 10:00:00 +0900": "2024-02-05",
		"2024.02.03 14:00":                "2024-02-03",
		"":                                "2024-01-02",
		"unknown":                         "2024-01-02",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeDate(in, now), in)
	}
}
