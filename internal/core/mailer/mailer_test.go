package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-site-api/internal/domain"
)

type sent struct {
	from string
	to   []string
	msg  string
}

func newTestMailer(out *[]sent, fail error) *Mailer {
	m := New(Config{From: "Studio <no-reply@example.com>", AdminEmail: "owner@example.com", SiteURL: "https://example.com"})
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return m.WithSender(func(_ context.Context, from string, to []string, msg []byte) error {
		*out = append(*out, sent{from: from, to: to, msg: string(msg)})
		return fail
	})
}

func sample() *domain.ContactMessage {
	return &domain.ContactMessage{
		Name:      "Lina <b>",
		Email:     "lina@example.com",
		Subject:   "Need a website",
		Message:   "We would like a new company website please.",
		Category:  "project",
		IPAddress: "10.0.0.1",
	}
}

func TestNotifyAdmin(t *testing.T) {
	var out []sent
	m := newTestMailer(&out, nil)

	require.NoError(t, m.NotifyAdmin(context.Background(), sample()))
	require.Len(t, out, 1)
	assert.Equal(t, "no-reply@example.com", out[0].from)
	assert.Equal(t, []string{"owner@example.com"}, out[0].to)
	assert.Contains(t, out[0].msg, "Subject: New Contact Form Submission - Need a website")
	assert.Contains(t, out[0].msg, "Not provided")
	assert.Contains(t, out[0].msg, "Lina &lt;b&gt;")
	assert.Contains(t, out[0].msg, "2026-01-02 03:04:05 UTC")
}

func TestAutoReply(t *testing.T) {
	var out []sent
	m := newTestMailer(&out, nil)

	require.NoError(t, m.AutoReply(context.Background(), sample()))
	require.Len(t, out, 1)
	assert.Equal(t, []string{"lina@example.com"}, out[0].to)
	assert.Contains(t, out[0].msg, "Subject: =?utf-8?q?")
	assert.Contains(t, out[0].msg, "Hello Lina &lt;b&gt;")
	assert.Contains(t, out[0].msg, `href="https://example.com"`)
}

func TestDeliverErrors(t *testing.T) {
	var out []sent
	boom := errors.New("421 try later")
	m := newTestMailer(&out, boom)
	assert.ErrorIs(t, m.AutoReply(context.Background(), sample()), boom)

	bad := sample()
	bad.Email = "not an address"
	assert.Error(t, m.AutoReply(context.Background(), bad))

	noAdmin := New(Config{From: "x@example.com"})
	assert.Error(t, noAdmin.NotifyAdmin(context.Background(), sample()))
}
