package httpapi

import "html/template"

const loginPageHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
{{if eq .Error "CredentialsSignin"}}<p class="error">Invalid email or password.</p>{{else if .Error}}<p class="error">Sign-in is unavailable, try again later.</p>{{end}}
<form method="post" action="/auth">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`

const homePageHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Collect admin</title></head>
<body>
<h1>Collect admin</h1>
<p>Signed in as {{.Email}}</p>
<ul>
{{range .Resources}}<li><a href="/api/{{.}}">{{.}}</a></li>
{{end}}</ul>
<form method="post" action="/auth/logout"><button type="submit">Sign out</button></form>
</body>
</html>
`

var pageTemplates = template.Must(parsePages())

func parsePages() (*template.Template, error) {
	t, err := template.New("login").Parse(loginPageHTML)
	if err != nil {
		return nil, err
	}
	if _, err := t.New("home").Parse(homePageHTML); err != nil {
		return nil, err
	}
	return t, nil
}
