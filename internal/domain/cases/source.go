package cases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// SourceItem satu entri dari papan laporan atau feed
type SourceItem struct {
	Source   string
	Title    string
	Link     string
	Date     string
	Location string
	Summary  string
	ImageURL string
}

// Hash identifies an item across syncs: sha256 over source, link and title.
func (it SourceItem) Hash() string {
	sum := sha256.Sum256([]byte(it.Source + "\n" + it.Link + "\n" + it.Title))
	return hex.EncodeToString(sum[:])
}

// Source port untuk collector (board / feed)
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]SourceItem, error)
}

// ImageFetcher downloads an item image for OCR.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}
