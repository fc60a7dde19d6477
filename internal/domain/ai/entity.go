package ai

// AnalysisResult laporan keselamatan terstruktur dari model bahasa.
// Semua field wajib ada di response; nilainya berbahasa Korea.
type AnalysisResult struct {
	Title      string   `json:"title"`
	Overview   string   `json:"overview"`
	Cause      string   `json:"cause"`
	LegalBasis string   `json:"legalBasis"`
	Penalty    string   `json:"penalty"`
	Prevention string   `json:"prevention"`
	Checklist  []string `json:"checklist"`
}

// ImageAnalysis is the result of the OCR -> analysis chain.
type ImageAnalysis struct {
	Analysis AnalysisResult `json:"analysis"`
	OCRText  string         `json:"ocrText"`
}

// RequiredFields lists the JSON names every AnalysisResult must carry.
var RequiredFields = []string{"title", "overview", "cause", "legalBasis", "penalty", "prevention", "checklist"}
