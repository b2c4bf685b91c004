package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

// Notification types.
const (
	Positive = "positive"
	Negative = "negative"
)

// Notification is a user visible message; Message is a translation key.
type Notification struct {
	Type    string
	Message string
	Err     error
}

// Notifier receives success and failure messages of mutating operations.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, notification Notification)

func (f NotifierFunc) Notify(ctx context.Context, notification Notification) {
	f(ctx, notification)
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier writing to the context logger.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, n Notification) {
	if n.Type == Negative {
		logger.Log(ctx).Warn(ctx, n.Message, zap.String("type", n.Type), zap.Error(n.Err))
		return
	}
	logger.Log(ctx).Info(ctx, n.Message, zap.String("type", n.Type))
}

func (c *Client) notifySuccess(ctx context.Context, message string) {
	c.notifier.Notify(ctx, Notification{Type: Positive, Message: message})
}

func (c *Client) notifyFailure(ctx context.Context, message string, err error) {
	c.notifier.Notify(ctx, Notification{Type: Negative, Message: message, Err: err})
}
