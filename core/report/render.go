package report

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"io"
	"net/mail"
	"strconv"
	texttemplate "text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	funcs = map[string]interface{}{
		"date":    func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"average": FormatAverage,
		"gpa":     FormatGPA,
	}

	htmlTmpl = htmltemplate.Must(htmltemplate.New("progress.html").Funcs(funcs).ParseFS(templatesFS, "templates/progress.html"))
	textTmpl = texttemplate.Must(texttemplate.New("progress.txt").Funcs(funcs).ParseFS(templatesFS, "templates/progress.txt"))
)

// FormatAverage renders a subject average, "--" without grades.
func FormatAverage(avg int) string {
	if avg <= 0 {
		return "--"
	}
	return strconv.Itoa(avg) + "%"
}

// FormatGPA renders a GPA with two decimals, "N/A" without grades.
func FormatGPA(gpa float64) string {
	if gpa <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(gpa, 'f', 2, 64)
}

func RenderHTML(w io.Writer, p Progress) error {
	return errors.Wrap(htmlTmpl.Execute(w, p), "rendering html report")
}

func RenderText(w io.Writer, p Progress) error {
	return errors.Wrap(textTmpl.Execute(w, p), "rendering text report")
}

// EmailMessage builds the report email, with the printable report attached.
func EmailMessage(p Progress, to []mail.Address) (*core.EmailMessage, error) {
	var html, text bytes.Buffer
	if err := RenderHTML(&html, p); err != nil {
		return nil, err
	}
	if err := RenderText(&text, p); err != nil {
		return nil, err
	}

	msg := &core.EmailMessage{
		To:          to,
		Subject:     "Progress Report - " + p.Student.Name,
		TextContent: text.String(),
		HTMLContent: html.String(),
	}
	msg.Attach(html.Bytes(), p.Filename()+".html", "text/html")
	return msg, nil
}
