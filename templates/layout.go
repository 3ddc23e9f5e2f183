package templates

// Layout is the main site template. It includes the header and footer and
// embeds the content for every other page.
var Layout = `
{{ define "layout" }}
<!DOCTYPE html>
<html lang="fr">
	<head>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<link rel="stylesheet" href="/assets/style.css">
		<title>Contact</title>
		<meta name="description" content="Formulaire de contact"/>
	</head>
	<body>
		<div class="page">
			{{ template "content" . }}
		</div>
		<footer>
			<div class="container footertext">
				<a href="/">Contact</a>
			</div>
		</footer>
	</body>
</html>
{{ end }}
`
