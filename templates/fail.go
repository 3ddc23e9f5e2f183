package templates

// Fail renders an error page with the status line and a message.
var Fail = `
{{ define "content" }}
			<div class="error-page">
				<h1>{{ .StatusCode }}: {{ .StatusText }}</h1>
				<p class="error-message">{{ .Message }}</p>
				<a class="btn btn-primary" href="/">Retour au formulaire</a>
			</div>
{{ end }}
`
