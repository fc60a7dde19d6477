package collector_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/siren-alert/internal/infra/collector"
)

const boardHTML = `<html><body>
<table class="board">
  <tr class="row">
    <td class="date">2024.03.01</td>
    <td class="subject"><a href="/view?id=11">건설현장   비계 붕괴</a></td>
    <td class="area">부산</td>
    <td class="summary">외부 비계 해체 중
      붕괴</td>
    <td><img src="/files/11.png"></td>
  </tr>
  <tr class="row">
    <td class="date">2024.03.02</td>
    <td class="subject"><a href="https://other.example/v/12">지게차 충돌</a></td>
    <td class="area">이천</td>
  </tr>
</table>
</body></html>`

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>재해 사례</title>
<item>
  <title> 컨베이어 끼임 </title>
  <link>/cases/3</link>
  <pubDate>Mon, 04 Mar 2024 09:00:00 +0900</pubDate>
  <category>울산</category>
  <description><![CDATA[<p>방호 덮개 제거 상태</p><img src="/img/3.jpg">]]></description>
</item>
<item>
  <title>크레인 전도</title>
  <link>https://feed.example/cases/4</link>
  <description>지반 침하</description>
  <enclosure url="https://cdn.example/4.png" type="image/png" length="10"/>
</item>
</channel></rss>`

func serve(t *testing.T, body, contentType string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
			return
		case "/image.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("PNGDATA"))
			return
		}
		assert.Equal(t, "siren-alert-collector/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBoardSourceScrapesRows(t *testing.T) {
	srv := serve(t, boardHTML, "text/html; charset=utf-8")
	src := collector.NewBoardSource("kosha-board", srv.URL+"/board/list", collector.Selectors{
		Item:     "tr.row",
		Title:    "td.subject",
		Date:     "td.date",
		Location: "td.area",
		Summary:  "td.summary",
	}, srv.Client())

	items, err := src.Fetch(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "kosha-board", src.Name())
	assert.Equal(t, "kosha-board", items[0].Source)
	assert.Equal(t, "건설현장 비계 붕괴", items[0].Title)
	assert.Equal(t, srv.URL+"/view?id=11", items[0].Link)
	assert.Equal(t, "2024.03.01", items[0].Date)
	assert.Equal(t, "부산", items[0].Location)
	assert.Equal(t, "외부 비계 해체 중 붕괴", items[0].Summary)
	assert.Equal(t, srv.URL+"/files/11.png", items[0].ImageURL)

	assert.Equal(t, "https://other.example/v/12", items[1].Link)
	assert.Empty(t, items[1].ImageURL)
	assert.Empty(t, items[1].Summary)
}

func TestBoardSourceTitleFallsBackToLink(t *testing.T) {
	srv := serve(t, boardHTML, "text/html")
	src := collector.NewBoardSource("b", srv.URL, collector.Selectors{Item: "tr.row"}, srv.Client())

	items, err := src.Fetch(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "지게차 충돌", items[1].Title)
}

func TestBoardSourceHTTPError(t *testing.T) {
	srv := serve(t, "", "")
	src := collector.NewBoardSource("b", srv.URL+"/missing", collector.Selectors{Item: "tr"}, srv.Client())

	_, err := src.Fetch(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFeedSourceParsesItems(t *testing.T) {
	srv := serve(t, feedXML, "application/rss+xml")
	src := collector.NewFeedSource("kosha-rss", srv.URL+"/rss", srv.Client())

	items, err := src.Fetch(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "컨베이어 끼임", first.Title)
	assert.Equal(t, srv.URL+"/cases/3", first.Link)
	assert.Equal(t, "Mon, 04 Mar 2024 09:00:00 +0900", first.Date)
	assert.Equal(t, "울산", first.Location)
	assert.Equal(t, "방호 덮개 제거 상태", first.Summary)
	assert.Equal(t, srv.URL+"/img/3.jpg", first.ImageURL)

	second := items[1]
	assert.Equal(t, "지반 침하", second.Summary)
	assert.Equal(t, "https://cdn.example/4.png", second.ImageURL)
	assert.Empty(t, second.Location)
}

func TestFeedSourceRejectsGarbage(t *testing.T) {
	srv := serve(t, "not a feed", "text/plain")
	_, err := collector.NewFeedSource("f", srv.URL, srv.Client()).Fetch(t.Context())
	assert.Error(t, err)
}

func TestImageFetcher(t *testing.T) {
	srv := serve(t, "", "")
	f := &collector.ImageFetcher{Client: srv.Client()}

	data, err := f.FetchImage(t.Context(), srv.URL+"/image.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), data)

	_, err = f.FetchImage(t.Context(), srv.URL+"/missing")
	assert.Error(t, err)
}
