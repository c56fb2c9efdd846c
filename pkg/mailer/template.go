package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"
)

// Template holds the source of one email kind. Subject and Text are text
// templates; HTML is escaped as HTML.
type Template struct {
	Subject string
	Text    string
	HTML    string
}

type compiled struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

// Renderer renders named templates with the sprig function set.
type Renderer struct {
	templates map[string]compiled
}

func NewRenderer(sources map[string]Template) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]compiled, len(sources))}
	for name, src := range sources {
		subject, err := texttemplate.New(name + ".subject").Funcs(sprig.TxtFuncMap()).Parse(src.Subject)
		if err != nil {
			return nil, fmt.Errorf("template %s subject: %w", name, err)
		}
		text, err := texttemplate.New(name + ".text").Funcs(sprig.TxtFuncMap()).Parse(src.Text)
		if err != nil {
			return nil, fmt.Errorf("template %s text: %w", name, err)
		}
		html, err := htmltemplate.New(name + ".html").Funcs(sprig.FuncMap()).Parse(src.HTML)
		if err != nil {
			return nil, fmt.Errorf("template %s html: %w", name, err)
		}
		r.templates[name] = compiled{subject: subject, text: text, html: html}
	}
	return r, nil
}

// Render fills the named template. The returned message has no recipient.
func (r *Renderer) Render(name string, data any) (Message, error) {
	t, ok := r.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown email template %q", name)
	}

	var subject, text, html bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := t.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}

	return Message{
		Subject: strings.TrimSpace(subject.String()),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
