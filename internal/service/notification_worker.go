package service

import (
	"context"
	"encoding/json"
	"fmt"

	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/Payphone-Digital/jury/pkg/mailer"
	"github.com/Payphone-Digital/jury/pkg/queue"
)

// NotificationWorker turns queued notifications into emails.
type NotificationWorker struct {
	consumer queue.Consumer
	topic    string
	renderer *mailer.Renderer
	sender   mailer.Sender
}

func NewNotificationWorker(consumer queue.Consumer, topic string, sender mailer.Sender) (*NotificationWorker, error) {
	renderer, err := mailer.NewRenderer(notificationTemplates)
	if err != nil {
		return nil, err
	}
	return &NotificationWorker{consumer: consumer, topic: topic, renderer: renderer, sender: sender}, nil
}

// Run consumes until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) error {
	logger.GetLogger().Info("Notification worker started")
	err := w.consumer.Consume(ctx, w.topic, w.Handle)
	logger.GetLogger().Info("Notification worker stopped")
	return err
}

// Handle renders and sends one notification. A returned error makes the
// driver drop the message.
func (w *NotificationWorker) Handle(ctx context.Context, msg queue.Message) error {
	ctx = ctxutil.WithFunction(ctx, "worker", "HandleNotification")

	var n Notification
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		logger.ErrorWithContext(ctx, "Dropping undecodable notification").
			String("message_key", msg.Key).
			Err(err).
			Log()
		return fmt.Errorf("decode notification: %w", err)
	}

	mail, err := w.renderer.Render(string(n.Type), n)
	if err != nil {
		logger.ErrorWithContext(ctx, "Dropping notification that cannot be rendered").
			String("type", string(n.Type)).
			String("notification_id", n.ID.String()).
			Err(err).
			Log()
		return err
	}
	mail.ToName = n.To.Name
	mail.ToEmail = n.To.Email

	if err := w.sender.Send(ctx, mail); err != nil {
		logger.ErrorWithContext(ctx, "Failed to send notification email").
			String("type", string(n.Type)).
			String("recipient_id", n.To.UserID.String()).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Notification delivered").
		String("type", string(n.Type)).
		String("notification_id", n.ID.String()).
		Log()
	return nil
}
