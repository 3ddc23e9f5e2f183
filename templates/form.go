package templates

// Contact renders the contact form of a mounted view.  Field edits are sent to
// the view's field route for immediate feedback; the submit button is
// disabled and relabelled while the form is being sent.
const Contact = `
{{ define "content" }}
			<div class="contact-form">
				<form id="contact" action="/" method="post" data-view="{{.view}}">
					<input type="hidden" name="_view" value="{{.view}}">
					{{if .banner}}
						<div class="banner {{.bannerClass}}" role="status">{{.banner}}</div>
					{{end}}
					{{range $idx, $elem := .elements}}
						<div class="form-group">
							<label for="{{$elem.ID}}" class="form-label">{{$elem.Label}}</label>
							{{if eq $elem.Type "textarea"}}
								<textarea id="{{$elem.ID}}" name="{{$elem.Name}}" class="form-textarea" rows="5" placeholder="{{$elem.Placeholder}}" {{if $elem.Required}}required{{end}}>{{$elem.Value}}</textarea>
							{{else}}
								<input type="{{$elem.Type}}" id="{{$elem.ID}}" name="{{$elem.Name}}" class="form-input" value="{{$elem.Value}}" placeholder="{{$elem.Placeholder}}" {{if $elem.Required}}required{{end}}>
							{{end}}
							<p class="error-message" id="{{$elem.ID}}-error">{{$elem.Error}}</p>
						</div>
					{{end}}
					<button type="submit" class="btn btn-primary" data-busy-label="{{.busyLabel}}" {{if .submitting}}disabled{{end}}>
						<span>{{if .submitting}}{{.busyLabel}}{{else}}{{.restLabel}}{{end}}</span>
					</button>
				</form>
			</div>
			<script>
			(function() {
				var form = document.getElementById("contact");
				var view = form.dataset.view;
				form.querySelectorAll("input[name]:not([type=hidden]), textarea").forEach(function(el) {
					el.addEventListener("input", function() {
						var body = new FormData();
						body.append("value", el.value);
						fetch("/views/" + view + "/fields/" + el.name, {method: "POST", body: body})
							.then(function(r) { return r.json(); })
							.then(function(res) { document.getElementById(el.name + "-error").textContent = res.error; })
							.catch(function() {});
					});
				});
				form.addEventListener("submit", function() {
					var btn = form.querySelector("button[type=submit]");
					btn.disabled = true;
					btn.querySelector("span").textContent = btn.dataset.busyLabel;
				});
				window.addEventListener("pagehide", function() {
					navigator.sendBeacon("/views/" + view + "/close");
				});
			})();
			</script>
{{ end }}
`
