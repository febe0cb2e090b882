package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/payhub-id/payment-service/pkg/helpers"
	"github.com/payhub-id/payment-service/pkg/mailer"
)

// enqueueEmail dispatches a notification job in a detached goroutine.
// Notification delivery is explicitly excluded from every operation's
// success or failure: a nil publisher, a disabled mail toggle or a
// publish error only produce a log line.
func enqueueEmail(pub *helpers.RabbitPublisher, logger *logrus.Logger, enabled bool, job mailer.EmailJob) {
	if pub == nil || !enabled {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pub.PublishJSON(ctx, job); err != nil && logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"to":       job.To,
				"template": job.Template,
			}).Warn("failed to enqueue notification email")
		}
	}()
}
