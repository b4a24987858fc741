package mail

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"
)

type row struct {
	Key   string
	Value string
}

type bodyData struct {
	SiteName  string
	FormTitle string
	Rows      []row
}

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<body>
<h2>New Form Submission - {{.SiteName}}</h2>
{{if .FormTitle}}<p>Form: {{.FormTitle}}</p>{{end}}
<table border="1" cellpadding="8" cellspacing="0">
{{range .Rows}}<tr><th align="left">{{.Key}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
<p>This email was sent from your contact form at {{.SiteName}}.</p>
</body>
</html>
`))

var userTemplate = template.Must(template.New("user").Parse(`<!DOCTYPE html>
<html>
<body>
<h2>Thank You for Contacting {{.SiteName}}</h2>
<p>We have received your submission and will get back to you soon.
Here is a copy of the information you submitted:</p>
<table border="1" cellpadding="8" cellspacing="0">
{{range .Rows}}<tr><th align="left">{{.Key}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
<p>This is an automated response from {{.SiteName}}. Please do not reply to this email.</p>
</body>
</html>
`))

func adminBody(siteName, formTitle string, payload map[string]string) ([]byte, error) {
	return renderBody(adminTemplate, bodyData{
		SiteName:  siteName,
		FormTitle: formTitle,
		Rows:      payloadRows(payload),
	})
}

func userBody(siteName string, payload map[string]string) ([]byte, error) {
	return renderBody(userTemplate, bodyData{
		SiteName: siteName,
		Rows:     payloadRows(payload),
	})
}

func renderBody(t *template.Template, data bodyData) ([]byte, error) {
	var buf bytes.Buffer
	err := t.Execute(&buf, data)
	if err != nil {
		return nil, errors.Wrap(err, "render mail body")
	}
	return buf.Bytes(), nil
}
