package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	maxPageBytes  = 5 << 20
	maxImageBytes = 10 << 20
	userAgent     = "siren-alert-collector/1.0"
)

// DefaultHTTPClient dipakai kalau client tidak diisi
var DefaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

func fetch(ctx context.Context, client *http.Client, rawURL string, limit int64) ([]byte, error) {
	if client == nil {
		client = DefaultHTTPClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", rawURL, limit)
	}
	return data, nil
}

// resolve relative href terhadap url halaman
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// ImageFetcher downloads item images for OCR.
type ImageFetcher struct {
	Client *http.Client
}

func (f *ImageFetcher) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	return fetch(ctx, f.Client, rawURL, maxImageBytes)
}
