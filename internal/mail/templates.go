package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template identifiers understood by Renderer.
const (
	TemplatePasswordReset      = "password-reset"
	TemplatePasswordResetOAuth = "password-reset-oauth"
	TemplateEmailConfirm       = "email-confirm"
)

// Message is a rendered email.
type Message struct {
	Subject string
	Body    string
}

type mailTemplate struct {
	subject string
	body    *template.Template
}

// Renderer fills templates with an ordered list of substitution strings.
// Inside a template the substitutions are available as {{index . N}}.
type Renderer struct {
	templates map[string]mailTemplate
}

// NewRenderer returns a Renderer holding the built-in account templates.
func NewRenderer() *Renderer {
	r := &Renderer{templates: make(map[string]mailTemplate)}
	r.mustAdd(TemplatePasswordReset, "Reset your password",
		`<p>Hello {{index . 0}},</p>
<p>We received a request to reset your password. Follow the link below to choose a new one:</p>
<p><a href="{{index . 1}}">{{index . 1}}</a></p>
<p>The link expires in {{index . 2}}. If you did not ask for this, you can ignore this email.</p>`)
	r.mustAdd(TemplatePasswordResetOAuth, "Signing in to your account",
		`<p>Hello {{index . 0}},</p>
<p>We received a request to reset your password, but your account was created with {{index . 1}} and has no password here.</p>
<p>Please sign in using {{index . 1}} instead.</p>`)
	r.mustAdd(TemplateEmailConfirm, "Confirm your email address",
		`<p>Hello {{index . 0}},</p>
<p>Please confirm your email address by following the link below:</p>
<p><a href="{{index . 1}}">{{index . 1}}</a></p>
<p>The link expires in {{index . 2}}.</p>`)
	return r
}

// Add registers or replaces a template.
func (r *Renderer) Add(id, subject, body string) error {
	tmpl, err := template.New(id).Option("missingkey=error").Parse(body)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", id, err)
	}
	r.templates[id] = mailTemplate{subject: subject, body: tmpl}
	return nil
}

func (r *Renderer) mustAdd(id, subject, body string) {
	if err := r.Add(id, subject, body); err != nil {
		panic(err)
	}
}

// Render executes template id with args. Values are HTML-escaped.
func (r *Renderer) Render(id string, args ...string) (Message, error) {
	t, ok := r.templates[id]
	if !ok {
		return Message{}, fmt.Errorf("unknown mail template %q", id)
	}
	var buf bytes.Buffer
	if err := t.body.Execute(&buf, args); err != nil {
		return Message{}, fmt.Errorf("render template %s: %w", id, err)
	}
	return Message{Subject: t.subject, Body: buf.String()}, nil
}
