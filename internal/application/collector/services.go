package collector

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/siren-alert/internal/application"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/failures"
	"github.com/bryanwahyu/siren-alert/internal/domain/settings"
)

const (
	pendingCause    = "분석 대기 중"
	unknownLocation = "미상"
)

// SettingsReader current settings
type SettingsReader interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Service mengumpulkan laporan bencana dari semua source
type Service struct {
	Sources     []cases.Source
	Repo        cases.Repository
	FailureRepo failures.Repository
	Settings    SettingsReader
	OCR         ai.TextExtractor   // boleh nil
	Images      cases.ImageFetcher // boleh nil
	Clock       application.Clock
}

// Result ringkasan satu kali sync
type Result struct {
	Fetched int      `json:"fetched"`
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Sync fetches every source and stores new items as pending cases.
// A failing source is reported in Result and does not stop the others.
func (s *Service) Sync(ctx context.Context) (Result, error) {
	var res Result
	st, err := s.Settings.Get(ctx)
	if err != nil {
		return res, err
	}

	for _, src := range s.Sources {
		items, err := src.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Printf("job=sync source=%s err=%v", src.Name(), err)
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		res.Fetched += len(items)

		for _, it := range items {
			if it.Source == "" {
				it.Source = src.Name()
			}
			created, err := s.store(ctx, st.Collection, it)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				log.Printf("job=sync source=%s title=%q err=%v", it.Source, it.Title, err)
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %q: %v", it.Source, it.Title, err))
			case created:
				res.Created++
			default:
				res.Skipped++
			}
		}
	}
	log.Printf("job=sync fetched=%d created=%d skipped=%d failed=%d", res.Fetched, res.Created, res.Skipped, res.Failed)
	return res, nil
}

func (s *Service) store(ctx context.Context, opts settings.Collection, it cases.SourceItem) (bool, error) {
	if strings.TrimSpace(it.Title) == "" {
		return false, nil
	}
	hash := it.Hash()
	if opts.Dedup {
		exists, err := s.Repo.ExistsByHash(ctx, hash)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}

	now := s.Clock.Now()
	c := &cases.Case{
		ID:             cases.CaseID(uuid.New().String()),
		Date:           normalizeDate(it.Date, now),
		Title:          strings.TrimSpace(it.Title),
		AnalysisStatus: cases.StatusPending,
		Location:       strings.TrimSpace(it.Location),
		Cause:          pendingCause,
		ImageURL:       it.ImageURL,
		OCRText:        strings.TrimSpace(it.Summary),
		Source:         it.Source,
		Hash:           hash,
		CreatedAt:      now,
	}
	if c.Location == "" {
		c.Location = unknownLocation
	}
	if opts.OCREnabled && it.ImageURL != "" {
		if text, err := s.ocr(ctx, it.ImageURL); err != nil {
			s.recordFailure(ctx, c, err)
		} else {
			c.OCRText = text
		}
	}
	if c.OCRText == "" {
		c.OCRText = c.Title
	}
	if err := s.Repo.Save(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ocr(ctx context.Context, url string) (string, error) {
	if s.OCR == nil || s.Images == nil {
		return "", fmt.Errorf("%w: OCR is not configured", ai.ErrConfiguration)
	}
	data, err := s.Images.FetchImage(ctx, url)
	if err != nil {
		return "", err
	}
	return s.OCR.ExtractText(ctx, base64.StdEncoding.EncodeToString(data))
}

func (s *Service) recordFailure(ctx context.Context, c *cases.Case, cause error) {
	log.Printf("case=%s phase=%s err=%v", c.ID, failures.PhaseCollect, cause)
	if s.FailureRepo == nil {
		return
	}
	f := &failures.Failure{
		CaseID:    string(c.ID),
		Phase:     failures.PhaseCollect,
		Message:   cause.Error(),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.FailureRepo.Save(ctx, f); err != nil {
		log.Printf("case=%s phase=collect failure_save_err=%v", c.ID, err)
	}
}

// normalizeDate terima "2006-01-02", "2006.01.02", "2006/01/02" atau RFC3339
func normalizeDate(v string, now time.Time) string {
	v = strings.TrimSpace(v)
	layouts := []string{cases.DateLayout, "2006.01.02", "2006/01/02", "2006.1.2", time.RFC3339, time.RFC1123Z, time.RFC1123}
	for _, l := range layouts {
		if t, err := time.Parse(l, v); err == nil {
			return t.Format(cases.DateLayout)
		}
	}
	if len(v) >= 10 {
		if t, err := time.Parse(cases.DateLayout, strings.NewReplacer(".", "-", "/", "-").Replace(v[:10])); err == nil {
			return t.Format(cases.DateLayout)
		}
	}
	return now.Format(cases.DateLayout)
}
