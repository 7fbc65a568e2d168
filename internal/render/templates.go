package render

const templates = `
{{define "card"}}<article class="claim-card">
  <div class="verdict {{.VerdictClass}}">{{if .Glyph}}{{.Glyph}} {{end}}{{.Verdict}}</div>
  <h3 class="claim">{{.Claim}}</h3>
  <div class="confidence">
    <span class="confidence-label">{{.Percent}}%</span>
    <div class="confidence-bar"><div class="confidence-fill" style="width: {{.FillWidth}}"></div></div>
  </div>
  <div class="explanation">{{.Explanation}}</div>
  {{- if .Evidence}}
  <ul class="evidence">
    {{- range .Evidence}}
    <li class="source {{.Credibility}}">
      <a href="{{.Href}}" target="_blank" rel="nofollow noopener">{{.Label}}</a>
      {{- if .Snippet}}
      <p class="snippet">{{.Snippet}}</p>
      {{- end}}
    </li>
    {{- end}}
  </ul>
  {{- end}}
  {{- if .Cached}}
  <span class="cache-indicator">⚡ From cache</span>
  {{- end}}
</article>
{{end}}

{{define "page"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  {{- if .Refresh}}
  <meta http-equiv="refresh" content="{{.RefreshSeconds}}">
  {{- end}}
</head>
<body>
  <header><h1>{{.Title}}</h1></header>
  <form class="scan-form" method="post" action="{{.ScanPath}}">
    <input type="text" name="topic" value="{{.Topic}}" placeholder="Enter a topic to scan"{{if eq .State "loading"}} disabled{{end}}>
    <button type="submit"{{if eq .State "loading"}} disabled{{end}}>{{if eq .State "loading"}}Scanning...{{else}}Scan{{end}}</button>
  </form>
  <main data-state="{{.State}}">
  {{- if eq .State "error"}}
    <div class="error">{{.Message}}</div>
  {{- else if eq .State "empty"}}
    <div class="info">{{.Message}}</div>
  {{- else if eq .State "results"}}
    <div class="scan-meta">
      <span class="processing-time">{{.Elapsed}}</span>
      {{- if .Meta.Cached}}
      <span class="scan-cached">cached</span>
      {{- end}}
      {{- if .Meta.TraceID}}
      <span class="trace-id">Trace: {{.Meta.TraceID}}</span>
      {{- end}}
    </div>
    {{- range .Cards}}
    {{template "card" .}}
    {{- end}}
  {{- end}}
  </main>
</body>
</html>
{{end}}`
