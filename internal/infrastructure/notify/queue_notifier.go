// Package notify publishes notification jobs for the email worker.
package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/pkg/mailer"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier enqueues jobs and never fails the caller: publish errors are logged.
type QueueNotifier struct {
	Pub     Publisher
	Enabled bool
	Logger  *logrus.Logger
}

func NewQueueNotifier(pub Publisher, enabled bool, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Enabled: enabled, Logger: logger}
}

func (n *QueueNotifier) Notify(ctx context.Context, job mailer.Job) {
	if n == nil || !n.Enabled || n.Pub == nil || job.To == "" {
		return
	}
	c, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := n.Pub.PublishJSON(c, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithFields(logrus.Fields{"type": job.Type, "to": job.To}).Warn("failed to publish notification")
	}
}
