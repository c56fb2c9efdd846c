package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/Payphone-Digital/jury/pkg/queue"
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyPenaltyCreated   NotificationType = "penalty.created"
	NotifyExpenseCreated   NotificationType = "expense.created"
	NotifyActivityReminder NotificationType = "activity.reminder"
)

type Recipient struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

func recipientOf(u *model.User) Recipient {
	return Recipient{UserID: u.ID, Name: u.Name, Email: u.Email}
}

// Notification is the message body put on the notification topic.
type Notification struct {
	ID         uuid.UUID        `json:"id"`
	Type       NotificationType `json:"type"`
	To         Recipient        `json:"to"`
	Data       map[string]any   `json:"data"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// Notifier enqueues notifications. Callers invoke it after their write
// has committed; failures are logged and never returned.
type Notifier struct {
	publisher queue.Publisher
	topic     string
}

func NewNotifier(publisher queue.Publisher, topic string) *Notifier {
	return &Notifier{publisher: publisher, topic: topic}
}

// Notify is safe on a nil Notifier.
func (n *Notifier) Notify(ctx context.Context, kind NotificationType, to Recipient, data map[string]any) {
	if n == nil || n.publisher == nil {
		return
	}
	ctx = ctxutil.WithFunction(ctx, "service", "Notify")

	msg := Notification{
		ID:         uuid.New(),
		Type:       kind,
		To:         to,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to encode notification").
			String("type", string(kind)).
			Err(err).
			Log()
		return
	}

	if err := n.publisher.Publish(ctx, n.topic, msg.ID.String(), body); err != nil {
		logger.WarnWithContext(ctx, "Notification not enqueued").
			String("type", string(kind)).
			String("recipient_id", to.UserID.String()).
			Err(err).
			Log()
		return
	}

	logger.DebugWithContext(ctx, "Notification enqueued").
		String("type", string(kind)).
		String("notification_id", msg.ID.String()).
		Log()
}
