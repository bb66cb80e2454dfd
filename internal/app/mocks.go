package app

import (
	"heartlink_backend/internal/email"
	"heartlink_backend/internal/logger"
)

// MockEmailProvider logs outbound mail instead of sending it. Used in
// development and whenever SMTP is not configured.
type MockEmailProvider struct{}

func (p *MockEmailProvider) Send(msg *email.Message) error {
	logger.Info("[MOCK EMAIL] message suppressed",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
