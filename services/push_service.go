package services

import "log/slog"

// PushSender delivers a push notification to a device token. Actual delivery
// is an external collaborator; the backend only depends on this interface.
type PushSender interface {
	SendPush(token, title, message string) error
}

// LogPushSender stands in for a real provider and records what would have
// been sent.
type LogPushSender struct {
	Log *slog.Logger
}

func (s LogPushSender) SendPush(token, title, message string) error {
	logger := s.Log
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("push notification", "title", title, "message", message)
	return nil
}
