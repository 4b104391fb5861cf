package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/pkg/config"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	done chan struct{}
}

func (r *recordingSender) Send(msg EmailMessage) error {
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	select {
	case r.done <- struct{}{}:
	default:
	}
	return nil
}

func TestEmailServiceDeliversQueuedMail(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 1)}
	svc := NewEmailService(sender, config.EmailConfig{Enabled: true, Workers: 1}, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	require.NoError(t, svc.SendWelcome("user@example.com", "planner"))

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("email was not delivered")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "user@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Body, "planner")
}

func TestEmailServiceDisabled(t *testing.T) {
	svc := NewEmailService(nil, config.EmailConfig{Enabled: false}, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	assert.False(t, svc.Enabled())
	assert.Error(t, svc.Enqueue(EmailMessage{To: "user@example.com", Subject: "hi"}))
}

func TestEmailServiceRejectsIncompleteMessage(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 1)}
	svc := NewEmailService(sender, config.EmailConfig{Enabled: true, Workers: 1}, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	assert.Error(t, svc.Enqueue(EmailMessage{Subject: "no recipient"}))
}
