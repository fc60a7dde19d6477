package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
)

// warna header per tema
var themeColors = map[string]string{
	"default": "#1d4ed8",
	"warning": "#dc2626",
	"minimal": "#374151",
}

const alertTemplate = `<!DOCTYPE html>
<html lang="ko">
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="margin:0;font-family:sans-serif;background:#f3f4f6;">
<div style="max-width:640px;margin:0 auto;background:#ffffff;">
  <div style="background:{{.Color}};color:#ffffff;padding:20px;">
    <div style="font-size:12px;opacity:0.8;">{{.SenderName}}</div>
    <h1 style="font-size:20px;margin:8px 0 0;">{{.Subject}}</h1>
  </div>
  <div style="padding:20px;color:#111827;">
    {{- if .CaseTitle}}
    <p style="font-size:13px;color:#6b7280;">{{.CaseDate}} · {{.Location}} · {{.CaseTitle}}</p>
    {{- end}}
    <h2 style="font-size:15px;">재해 개요</h2>
    <p>{{.Details.Overview}}</p>
    {{- if .Cause}}
    <p><strong>원인:</strong> {{.Cause}}</p>
    {{- end}}
    <h2 style="font-size:15px;">법적 근거</h2>
    <p>{{.Details.LegalBasis}}</p>
    {{- if .Details.Penalty}}
    <h2 style="font-size:15px;">과태료 및 처벌</h2>
    <p>{{.Details.Penalty}}</p>
    {{- end}}
    <h2 style="font-size:15px;">예방 대책</h2>
    <p>{{.Details.Prevention}}</p>
    <h2 style="font-size:15px;">현장 자율 점검 체크리스트</h2>
    <ul>
    {{- range .Details.Checklist}}
      <li>{{.}}</li>
    {{- end}}
    </ul>
  </div>
</div>
</body>
</html>
`

// TemplateRenderer renders alert mails with html/template.
type TemplateRenderer struct {
	tmpl *template.Template
}

func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{tmpl: template.Must(template.New("alert").Parse(alertTemplate))}
}

func (r *TemplateRenderer) Render(e alerts.Email) (string, error) {
	color, ok := themeColors[e.Theme]
	if !ok {
		color = themeColors["default"]
	}
	data := struct {
		alerts.Email
		Color string
	}{Email: e, Color: color}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render alert mail: %w", err)
	}
	return buf.String(), nil
}
