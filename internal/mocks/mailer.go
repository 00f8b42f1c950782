package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/task-manager-api/internal/mail"
)

// MockMailer records sent messages.
type MockMailer struct {
	mu   sync.Mutex
	Sent []mail.Message

	// Err, when set, is returned from Send and nothing is recorded
	Err error
}

var _ mail.Mailer = (*MockMailer)(nil)

// Send implements mail.Mailer.
func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Last returns the most recent message, or false if none was sent.
func (m *MockMailer) Last() (mail.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return mail.Message{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}
