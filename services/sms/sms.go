package sms

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers a text message to a phone number. Delivery is an external
// collaborator: implementations must bound their own call time.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSender writes outgoing messages to the log instead of delivering them.
// Used in development and tests.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) Send(_ context.Context, phone, message string) error {
	s.Logger.Sugar().Infof("Sending SMS to %s: %s", phone, message)
	return nil
}
