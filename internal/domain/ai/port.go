package ai

import "context"

// Analyzer turns incident text into a structured safety report.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (*AnalysisResult, error)
}

// TextExtractor runs OCR on a base64 encoded image.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageBase64 string) (string, error)
}
