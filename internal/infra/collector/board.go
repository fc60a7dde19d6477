package collector

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
)

// Selectors CSS selector untuk papan laporan HTML.
// Selain Item, semua selector relatif terhadap elemen item.
type Selectors struct {
	Item     string
	Title    string
	Link     string
	Date     string
	Location string
	Summary  string
	Image    string
}

// BoardSource scrapes an HTML list page of disaster reports.
type BoardSource struct {
	name   string
	url    string
	sel    Selectors
	client *http.Client
}

func NewBoardSource(name, pageURL string, sel Selectors, client *http.Client) *BoardSource {
	if sel.Link == "" {
		sel.Link = "a"
	}
	if sel.Image == "" {
		sel.Image = "img"
	}
	return &BoardSource{name: name, url: pageURL, sel: sel, client: client}
}

func (b *BoardSource) Name() string { return b.name }

func (b *BoardSource) Fetch(ctx context.Context) ([]cases.SourceItem, error) {
	page, err := fetch(ctx, b.client, b.url, maxPageBytes)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse board %s: %w", b.name, err)
	}
	base, _ := url.Parse(b.url)

	var items []cases.SourceItem
	doc.Find(b.sel.Item).Each(func(_ int, s *goquery.Selection) {
		titleSel := b.sel.Title
		if titleSel == "" {
			titleSel = b.sel.Link
		}
		title := text(s, titleSel)
		href, _ := s.Find(b.sel.Link).First().Attr("href")
		img, _ := s.Find(b.sel.Image).First().Attr("src")
		items = append(items, cases.SourceItem{
			Source:   b.name,
			Title:    title,
			Link:     resolve(base, href),
			Date:     text(s, b.sel.Date),
			Location: text(s, b.sel.Location),
			Summary:  text(s, b.sel.Summary),
			ImageURL: resolve(base, img),
		})
	})
	return items, nil
}

// text isi teks selector pertama, whitespace dirapikan
func text(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.Join(strings.Fields(s.Find(selector).First().Text()), " ")
}
