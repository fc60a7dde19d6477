package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
)

var (
	siren  = lipgloss.Color("#DC2626") // red
	fg     = lipgloss.Color("#E8E6E3")
	dim    = lipgloss.Color("#6B7280")
	good   = lipgloss.Color("#22C55E")
	accent = lipgloss.Color("#F59E0B")
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(siren).
			Padding(0, 2).
			Width(72)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(siren)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	bodyStyle    = lipgloss.NewStyle().Foreground(fg).PaddingLeft(2).Width(70)
	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	checkStyle   = lipgloss.NewStyle().Foreground(good)
)

// renderReport laporan keselamatan untuk terminal
func renderReport(r *ai.AnalysisResult, ocrText string) string {
	var b strings.Builder

	b.WriteString(boxStyle.Render(titleStyle.Render("⚠ "+r.Title) + "\n" + dimStyle.Render("AI 재해 분석 리포트")))
	b.WriteString("\n\n")

	section(&b, "재해 개요", r.Overview)
	section(&b, "발생 원인", r.Cause)
	section(&b, "법적 근거", r.LegalBasis)
	if strings.TrimSpace(r.Penalty) != "" {
		section(&b, "과태료 및 처벌", r.Penalty)
	}
	section(&b, "예방 대책", r.Prevention)

	b.WriteString(sectionStyle.Render("현장 자율 점검 체크리스트"))
	b.WriteString("\n")
	for i, item := range r.Checklist {
		fmt.Fprintf(&b, "  %s %s\n", checkStyle.Render(fmt.Sprintf("%d.", i+1)), item)
	}

	if ocrText != "" {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("OCR 원문"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(bodyStyle.Render(ocrText)))
		b.WriteString("\n")
	}
	return b.String()
}

func section(b *strings.Builder, name, body string) {
	b.WriteString(sectionStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(bodyStyle.Render(body))
	b.WriteString("\n\n")
}

func renderMigrated(driver string, n int) string {
	if n == 0 {
		return dimStyle.Render(fmt.Sprintf("%s: schema up to date", driver))
	}
	return checkStyle.Render(fmt.Sprintf("%s: applied %d migration(s)", driver, n))
}
