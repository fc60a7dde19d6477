package collector

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed/rss"

	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
)

// FeedSource reads disaster reports from an RSS feed.
type FeedSource struct {
	name   string
	url    string
	client *http.Client
}

func NewFeedSource(name, feedURL string, client *http.Client) *FeedSource {
	return &FeedSource{name: name, url: feedURL, client: client}
}

func (f *FeedSource) Name() string { return f.name }

func (f *FeedSource) Fetch(ctx context.Context) ([]cases.SourceItem, error) {
	data, err := fetch(ctx, f.client, f.url, maxPageBytes)
	if err != nil {
		return nil, err
	}
	fp := rss.Parser{}
	feed, err := fp.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.name, err)
	}
	base, _ := url.Parse(f.url)

	items := make([]cases.SourceItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		summary, img := plainText(it.Description)
		if it.Enclosure != nil && strings.HasPrefix(it.Enclosure.Type, "image/") {
			img = it.Enclosure.URL
		}
		location := ""
		if len(it.Categories) > 0 && it.Categories[0] != nil {
			location = strings.TrimSpace(it.Categories[0].Value)
		}
		items = append(items, cases.SourceItem{
			Source:   f.name,
			Title:    strings.TrimSpace(it.Title),
			Link:     resolve(base, it.Link),
			Date:     strings.TrimSpace(it.PubDate),
			Location: location,
			Summary:  summary,
			ImageURL: resolve(base, img),
		})
	}
	return items, nil
}

// plainText buang tag html dari description, ambil gambar pertama
func plainText(html string) (string, string) {
	if !strings.Contains(html, "<") {
		return strings.Join(strings.Fields(html), " "), ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html), ""
	}
	img, _ := doc.Find("img").First().Attr("src")
	return strings.Join(strings.Fields(doc.Text()), " "), img
}
