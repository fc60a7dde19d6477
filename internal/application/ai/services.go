package ai

import (
	"context"
	"strings"

	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
)

// Service menjalankan analisis teks dan pipeline gambar (OCR -> analisis).
// Kegagalan di tahap mana pun dikembalikan apa adanya.
type Service struct {
	analyzer  ai.Analyzer
	extractor ai.TextExtractor
}

func NewService(analyzer ai.Analyzer, extractor ai.TextExtractor) *Service {
	return &Service{analyzer: analyzer, extractor: extractor}
}

// AnalyzeText validates the text and runs a single analysis call.
func (s *Service) AnalyzeText(ctx context.Context, text string) (*ai.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.InvalidInputf("text input is empty")
	}
	return s.analyzer.AnalyzeText(ctx, text)
}

// ExtractText runs OCR only.
func (s *Service) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	if imageBase64 == "" {
		return "", ai.InvalidInputf("image input is empty")
	}
	return s.extractor.ExtractText(ctx, imageBase64)
}

// AnalyzeImage extracts text from the image then analyzes it.
func (s *Service) AnalyzeImage(ctx context.Context, imageBase64 string) (*ai.ImageAnalysis, error) {
	if imageBase64 == "" {
		return nil, ai.InvalidInputf("image input is empty")
	}
	text, err := s.ExtractText(ctx, imageBase64)
	if err != nil {
		return nil, err
	}
	res, err := s.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		return nil, err
	}
	return &ai.ImageAnalysis{Analysis: *res, OCRText: text}, nil
}
