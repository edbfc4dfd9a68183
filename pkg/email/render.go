package email

import (
	"bytes"
	"fmt"
	"text/template"
)

var (
	subjectTemplate = template.Must(template.New("subject").Parse(
		`Update voor uw zaak {{.Identification}}`))

	bodyTemplate = template.Must(template.New("body").Parse(`Beste{{if .RecipientName}} {{.RecipientName}}{{end}},

Er is een nieuwe status voor uw zaak.

Zaaknummer: {{.Identification}}
Soort zaak: {{.TypeDescription}}
Startdatum: {{.StartDate}}

Bekijk de zaak: {{.CaseLink}}
`))
)

// Render produces the subject and plain text body for n.
func Render(n CaseNotification) (subject, body string, err error) {
	var sb, bb bytes.Buffer
	if err := subjectTemplate.Execute(&sb, n); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := bodyTemplate.Execute(&bb, n); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return sb.String(), bb.String(), nil
}
