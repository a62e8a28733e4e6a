package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/notification"
	"github.com/atikes/hr-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// HubNotifier pushes workflow events to live SSE streams.
type HubNotifier struct {
	hub    *sse.Hub
	logger *slog.Logger
}

func NewHubNotifier(hub *sse.Hub, logger *slog.Logger) *HubNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &HubNotifier{hub: hub, logger: logger}
}

type eventPayload struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Notify implements notification.Notifier.
func (n *HubNotifier) Notify(ctx context.Context, event notification.Event) error {
	if event.RecipientID == "" {
		return nil
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	id := uuid.NewString()
	delivered := n.hub.Publish(sse.Event{
		ID:          id,
		RecipientID: event.RecipientID,
		Name:        string(event.Type),
		Data: eventPayload{
			ID:        id,
			Type:      string(event.Type),
			Title:     event.Title,
			Data:      event.Data,
			CreatedAt: event.CreatedAt,
		},
	})

	n.logger.DebugContext(ctx, "notification published",
		slog.String("type", string(event.Type)),
		slog.String("recipient_id", event.RecipientID),
		slog.Int("streams", delivered),
	)
	return nil
}

// Subscribe opens a stream for the recipient on the underlying hub.
func (n *HubNotifier) Subscribe(recipientID string) (<-chan sse.Event, func()) {
	return n.hub.Subscribe(recipientID)
}

var _ notification.Notifier = (*HubNotifier)(nil)
