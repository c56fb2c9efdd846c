package mailer

import (
	"context"
	"testing"

	"github.com/Payphone-Digital/jury/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutKey(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.EmailConfig
	}{
		{name: "disabled", cfg: config.EmailConfig{Enabled: false, SendGridAPIKey: "key"}},
		{name: "no key", cfg: config.EmailConfig{Enabled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.cfg)
			assert.IsType(t, disabledSender{}, s)
			assert.NoError(t, s.Send(context.Background(), Message{ToEmail: "a@b.c"}))
		})
	}

	assert.IsType(t, &SendGridSender{}, New(config.EmailConfig{Enabled: true, SendGridAPIKey: "key"}))
}

func TestSendGridSender_NoRecipient(t *testing.T) {
	s := NewSendGridSender(config.EmailConfig{SendGridAPIKey: "key", From: "x@y.z"})
	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrNoRecipient)
}

func TestRenderer(t *testing.T) {
	r, err := NewRenderer(map[string]Template{
		"greet": {
			Subject: `Hello {{ .Name | upper }}`,
			Text:    `Amount: {{ .Amount }}`,
			HTML:    `<p>{{ .Name }} owes {{ .Amount | default 0 }}</p>`,
		},
	})
	require.NoError(t, err)

	msg, err := r.Render("greet", map[string]any{"Name": "<ann>", "Amount": 5})
	require.NoError(t, err)
	assert.Equal(t, "Hello <ANN>", msg.Subject)
	assert.Equal(t, "Amount: 5", msg.Text)
	assert.Equal(t, "<p>&lt;ann&gt; owes 5</p>", msg.HTML)

	_, err = r.Render("missing", nil)
	assert.Error(t, err)
}

func TestNewRenderer_ParseError(t *testing.T) {
	_, err := NewRenderer(map[string]Template{"bad": {Subject: "{{ .X "}})
	assert.Error(t, err)
}
