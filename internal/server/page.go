package server

import "html/template"

type pageTurn struct {
	Index    int
	Question string
	Answer   template.HTML
	Sources  []pageSource
	Escalate bool
}

type pageSource struct {
	Source string
	Page   int
}

type pageData struct {
	Turns   []pageTurn
	Sources []string
	Error   string
	Notice  string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>SaaS Support Bot</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
.turn { border-bottom: 1px solid #ddd; padding: 1rem 0; }
.source { color: #555; font-style: italic; margin-left: 1rem; }
.error { color: #a00; }
.notice { color: #070; }
</style>
</head>
<body>
<h1>🤖 SaaS Product Support Chatbot</h1>
{{if .Sources}}<p>Knowledge base: {{range $i, $s := .Sources}}{{if $i}}, {{end}}{{$s}}{{end}}</p>{{end}}
<form method="post" action="/ask">
  <label for="question">Ask a question about your SaaS documentation:</label><br>
  <input id="question" name="question" type="text" size="60" autofocus>
  <button type="submit">Ask</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
{{range .Turns}}
<div class="turn">
  <p><strong>You:</strong> {{.Question}}</p>
  <div><strong>Bot:</strong> {{.Answer}}</div>
  {{range .Sources}}<p class="source">📄 Source: {{.Source}} page {{.Page}}</p>{{end}}
  {{if .Escalate}}
  <form method="post" action="/tickets/{{.Index}}">
    <button type="submit">Create support ticket for: '{{.Question}}'</button>
  </form>
  {{end}}
</div>
{{end}}
</body>
</html>
`))
