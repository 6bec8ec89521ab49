package email

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// AssignmentData feeds the "document requires your attention" email.
type AssignmentData struct {
	RecipientName string
	Title         string
	KindLabel     string
	Mandatory     bool
	Reminder      bool
	URL           string
}

const assignmentText = `Hello {{.RecipientName}},

{{if .Reminder}}Reminder: {{end}}{{.KindLabel}} "{{.Title}}" {{if .Mandatory}}must be read and signed before you continue working{{else}}has been shared with you{{end}}.

Open it here: {{.URL}}
`

const assignmentHTML = `<p>Hello {{.RecipientName}},</p>
<p>{{if .Reminder}}<strong>Reminder:</strong> {{end}}{{.KindLabel}} <strong>{{.Title}}</strong>
{{if .Mandatory}}must be read and signed before you continue working{{else}}has been shared with you{{end}}.</p>
<p><a href="{{.URL}}">Open {{.Title}}</a></p>
`

var (
	assignmentTextTmpl = texttemplate.Must(texttemplate.New("assignment.txt").Parse(assignmentText))
	assignmentHTMLTmpl = htmltemplate.Must(htmltemplate.New("assignment.html").Parse(assignmentHTML))
)

// RenderAssignment builds the message for a new or reminded assignment.
func RenderAssignment(to string, data AssignmentData) (Message, error) {
	var text, html bytes.Buffer
	if err := assignmentTextTmpl.Execute(&text, data); err != nil {
		return Message{}, err
	}
	if err := assignmentHTMLTmpl.Execute(&html, data); err != nil {
		return Message{}, err
	}
	subject := "Action required: " + data.Title
	if !data.Mandatory {
		subject = "For your information: " + data.Title
	}
	if data.Reminder {
		subject = "Reminder - " + subject
	}
	return Message{
		To:      to,
		Subject: strings.ReplaceAll(subject, "\n", " "),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
