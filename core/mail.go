package core

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/mail"
)

type (
	Attachment struct {
		Content     *bytes.Buffer // base64 encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		TextContent string
		HTMLContent string
		Attachments []Attachment
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages and returns the first delivery error
		SendMessages(messages ...*EmailMessage) error
	}
)

// Attach base64 encodes `content` and adds it to the message attachments.
func (m *EmailMessage) Attach(content []byte, filename string, ct ...string) {
	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}

	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	_, _ = encoder.Write(content)
	_ = encoder.Close()

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

// ParseAddresses parses each of `addrs` into a mail.Address.
func ParseAddresses(addrs []string) ([]mail.Address, error) {
	parsed := make([]mail.Address, 0, len(addrs))
	for _, a := range addrs {
		a = CleanString(a)
		if a == "" {
			continue
		}
		addr, err := mail.ParseAddress(a)
		if err != nil {
			return nil, NewValidationError(err, FieldError{Field: "recipients", Error: "invalid email address: " + a})
		}
		parsed = append(parsed, *addr)
	}
	return parsed, nil
}
