package cases

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/siren-alert/internal/application"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	domain "github.com/bryanwahyu/siren-alert/internal/domain/cases"
	"github.com/bryanwahyu/siren-alert/internal/domain/failures"
	"github.com/bryanwahyu/siren-alert/internal/domain/reports"
)

// Pipeline tahap OCR dan analisis teks
type Pipeline interface {
	ExtractText(ctx context.Context, imageBase64 string) (string, error)
	AnalyzeText(ctx context.Context, text string) (*ai.AnalysisResult, error)
}

// Service implements use-cases untuk Case
type Service struct {
	Repo        domain.Repository
	ReportRepo  reports.Repository
	FailureRepo failures.Repository
	AI          Pipeline
	Images      domain.ImageStore // boleh nil
	Clock       application.Clock
	Model       string

	// OnAnalyzed dipanggil setelah analisis sukses (kirim alert onComplete)
	OnAnalyzed func(ctx context.Context, c *domain.Case)
}

//
// ==== USE CASES ====
//

// List returns a page of cases, newest first.
func (s *Service) List(ctx context.Context, q domain.Query) (domain.PaginatedResult, error) {
	if q.Status != "" && !q.Status.Valid() {
		return domain.PaginatedResult{}, ai.InvalidInputf("unknown status %q", q.Status)
	}
	return s.Repo.Paginate(ctx, q.Normalize())
}

// Get ambil 1 case by id
func (s *Service) Get(ctx context.Context, id domain.CaseID) (*domain.Case, error) {
	return s.Repo.Get(ctx, id)
}

// Report returns the newest analysis report of a case.
func (s *Service) Report(ctx context.Context, id domain.CaseID) (*reports.Report, error) {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return nil, err
	}
	rep, err := s.ReportRepo.LatestByCase(ctx, string(id))
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, fmt.Errorf("%w: no report for case %s", domain.ErrNotFound, id)
	}
	return rep, nil
}

// Failures returns recent failed attempts for a case.
func (s *Service) Failures(ctx context.Context, id domain.CaseID, limit int) ([]*failures.Failure, error) {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.FailureRepo.ListByCase(ctx, string(id), limit)
}

// Analyze runs the text analysis over the case OCR text.
func (s *Service) Analyze(ctx context.Context, id domain.CaseID) (*reports.Report, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.OCRText) == "" {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidInput, domain.ErrNoText)
	}

	res, err := s.AI.AnalyzeText(ctx, c.OCRText)
	if err != nil {
		c.AnalysisStatus = domain.StatusFailed
		if serr := s.Repo.Save(ctx, c); serr != nil {
			log.Printf("case=%s phase=analysis save_err=%v", c.ID, serr)
		}
		s.recordFailure(ctx, string(c.ID), failures.PhaseAnalysis, err)
		return nil, err
	}

	c.AnalysisStatus = domain.StatusCompleted
	c.Title = res.Title
	c.Cause = res.Cause
	if err := s.Repo.Save(ctx, c); err != nil {
		return nil, err
	}
	rep, err := s.saveReport(ctx, c, res)
	if err != nil {
		return nil, err
	}
	log.Printf("case=%s phase=analysis status=completed", c.ID)
	s.notify(ctx, c)
	return rep, nil
}

// UploadCommand gambar laporan dari console
type UploadCommand struct {
	ImageBase64 string
	MimeType    string
	Location    string
}

// UploadResult case baru beserta hasil analisis
type UploadResult struct {
	Case     *domain.Case      `json:"case"`
	Analysis ai.AnalysisResult `json:"analysis"`
	OCRText  string            `json:"ocrText"`
}

// Upload runs OCR then analysis and records the outcome as a new case.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (*UploadResult, error) {
	image := ai.StripDataURL(cmd.ImageBase64)
	if image == "" {
		return nil, ai.InvalidInputf("image input is empty")
	}
	now := s.Clock.Now()
	location := strings.TrimSpace(cmd.Location)
	if location == "" {
		location = domain.DefaultLocation
	}
	c := &domain.Case{
		ID:             domain.CaseID(uuid.New().String()),
		Date:           now.Format(domain.DateLayout),
		Title:          domain.FailedUploadTitle,
		AnalysisStatus: domain.StatusFailed,
		Location:       location,
		Source:         domain.SourceUpload,
		CreatedAt:      now,
	}

	text, err := s.AI.ExtractText(ctx, image)
	if err != nil {
		s.uploadFailed(ctx, c, image, cmd.MimeType, failures.PhaseOCR, err)
		return nil, err
	}
	c.OCRText = text
	res, err := s.AI.AnalyzeText(ctx, text)
	if err != nil {
		s.uploadFailed(ctx, c, image, cmd.MimeType, failures.PhaseAnalysis, err)
		return nil, err
	}

	c.Title = res.Title
	c.Cause = res.Cause
	c.AnalysisStatus = domain.StatusCompleted
	c.ImageURL = s.storeImage(ctx, c, image, cmd.MimeType)

	if err := s.Repo.Save(ctx, c); err != nil {
		return nil, err
	}
	if _, err := s.saveReport(ctx, c, res); err != nil {
		return nil, err
	}
	log.Printf("case=%s phase=upload status=completed", c.ID)
	s.notify(ctx, c)
	return &UploadResult{Case: c, Analysis: *res, OCRText: text}, nil
}

// helper

// uploadFailed keeps the failed upload as a failed case so its failures can be
// listed and, when OCR succeeded, the case can be analyzed again.
func (s *Service) uploadFailed(ctx context.Context, c *domain.Case, image, mimeType string, phase failures.Phase, cause error) {
	c.ImageURL = s.storeImage(ctx, c, image, mimeType)
	if err := s.Repo.Save(ctx, c); err != nil {
		log.Printf("case=%s phase=%s save_err=%v", c.ID, phase, err)
	}
	s.recordFailure(ctx, string(c.ID), phase, cause)
}

func (s *Service) saveReport(ctx context.Context, c *domain.Case, res *ai.AnalysisResult) (*reports.Report, error) {
	rep := &reports.Report{
		ID:        reports.ReportID(uuid.New().String()),
		CaseID:    string(c.ID),
		OCRText:   c.OCRText,
		Result:    *res,
		Model:     s.Model,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.ReportRepo.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return rep, nil
}

func (s *Service) notify(ctx context.Context, c *domain.Case) {
	if s.OnAnalyzed != nil {
		s.OnAnalyzed(ctx, c)
	}
}

// storeImage upload ke object storage; gagal upload tidak menggagalkan case
func (s *Service) storeImage(ctx context.Context, c *domain.Case, image, mimeType string) string {
	if s.Images == nil {
		return ""
	}
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		log.Printf("case=%s phase=upload image_decode_err=%v", c.ID, err)
		return ""
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	key := fmt.Sprintf("cases/%s/%s%s", c.Date, c.ID, extensionFor(mimeType))
	url, err := s.Images.PutImage(ctx, key, data, mimeType)
	if err != nil {
		log.Printf("case=%s phase=upload image_store_err=%v", c.ID, err)
		return ""
	}
	return url
}

func (s *Service) recordFailure(ctx context.Context, caseID string, phase failures.Phase, cause error) {
	log.Printf("case=%s phase=%s err=%v", caseID, phase, cause)
	f := &failures.Failure{
		CaseID:      caseID,
		Phase:       phase,
		Message:     cause.Error(),
		DetailsJSON: failureDetails(cause),
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.FailureRepo.Save(ctx, f); err != nil {
		log.Printf("case=%s phase=%s failure_save_err=%v", caseID, phase, err)
	}
}

// failureDetails simpan status dan body upstream untuk diagnosa
func failureDetails(err error) string {
	var up *ai.UpstreamError
	if !errors.As(err, &up) {
		return ""
	}
	b, _ := json.Marshal(map[string]any{
		"service":    up.Service,
		"statusCode": up.StatusCode,
		"body":       up.Body,
	})
	return string(b)
}


func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
