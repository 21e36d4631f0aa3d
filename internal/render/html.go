package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jonathan/resume-studio/internal/types"
)

// htmlPage is the template context for an exported resume page.
type htmlPage struct {
	Doc       *Document
	Style     types.Style
	Palette   types.Palette
	MainRatio int
}

// HTML projects a rendered Document to a standalone HTML page styled by the
// variant and theme. The projection takes only the Document tree as content
// input, so render determinism carries through to the exported page.
func HTML(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	page := htmlPage{
		Doc:       doc,
		Style:     doc.Variant.Style(),
		Palette:   types.ThemePalette(doc.Theme),
		MainRatio: 100 - doc.SidebarRatio,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Doc.Header.Name}}</title>
<style>
  body {
    margin: 0;
    font-family: {{.Style.FontFamily}};
    color: {{.Palette.Text}};
    background: {{.Palette.Background}};
  }
  h1, h2, h3 { font-family: {{.Style.HeadingFont}}; }
  h1 { margin: 0; font-size: 26px; }
  h2 { color: {{.Style.Accent}}; font-size: 14px; text-transform: uppercase; letter-spacing: 1px; border-bottom: 1px solid {{.Style.Accent}}; padding-bottom: 2px; }
  h3 { margin: 0; font-size: 13px; }
  .page { padding: 36px; }
  .header-title { color: {{.Style.Accent}}; font-size: 15px; margin: 2px 0 6px; }
  .contacts { color: {{.Palette.MutedText}}; font-size: 11px; }
  .contacts span + span::before { content: " \00b7 "; }
  .columns { display: flex; gap: 24px; }
  .sidebar { width: {{.Doc.SidebarRatio}}%; background: {{.Palette.SidebarBackground}}; padding: 12px; box-sizing: border-box; }
  .main { width: {{.MainRatio}}%; }
  .entry { margin-bottom: 10px; }
  .entry-meta { color: {{.Palette.MutedText}}; font-size: 11px; }
  .entry ul { margin: 4px 0 0; padding-left: 16px; }
  .entry li, .narrative { font-size: 12px; line-height: 1.45; }
</style>
</head>
<body>
<div class="page">
  <header>
    <h1>{{.Doc.Header.Name}}</h1>
    {{- if .Doc.Header.Title}}
    <div class="header-title">{{.Doc.Header.Title}}</div>
    {{- end}}
    <div class="contacts">
      {{- range .Doc.Header.Contacts}}
      <span>{{.Value}}</span>
      {{- end}}
    </div>
  </header>
  {{- if eq .Doc.Layout "split"}}
  <div class="columns">
    <div class="sidebar">
      {{- range .Doc.Sidebar}}{{template "section" .}}{{end}}
    </div>
    <div class="main">
      {{- range .Doc.Main}}{{template "section" .}}{{end}}
    </div>
  </div>
  {{- else}}
  {{- range .Doc.Main}}{{template "section" .}}{{end}}
  {{- end}}
</div>
</body>
</html>
{{- define "section"}}
<section>
  <h2>{{.Title}}</h2>
  {{- if .Entries}}
  {{- range .Entries}}
  <div class="entry">
    <h3>{{.Title}}</h3>
    <div class="entry-meta">{{.Subtitle}}{{if and .Subtitle .Date}} &middot; {{end}}{{.Date}}</div>
    {{- if .Description}}
    <div class="narrative">{{.Description}}</div>
    {{- end}}
    {{- if .Bullets}}
    <ul>
      {{- range .Bullets}}
      <li>{{.}}</li>
      {{- end}}
    </ul>
    {{- end}}
  </div>
  {{- end}}
  {{- else}}
  <p class="narrative">{{.Narrative}}</p>
  {{- end}}
</section>
{{- end}}`))
