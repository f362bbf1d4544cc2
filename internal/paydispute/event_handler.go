package paydispute

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bpohub/workforce/internal/core/events"
)

// EventHandler records workflow movements on the dispute's comment thread so
// the history survives without a separate audit table.
type EventHandler struct {
	repo   Repository
	logger *slog.Logger
}

func NewEventHandler(repo Repository, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *EventHandler) HandleStatusChanged(ctx context.Context, event events.Event) error {
	statusEvent, ok := event.(*events.DisputeStatusChangedEvent)
	if !ok {
		h.logger.Error("invalid event type for dispute status handler", "event_type", event.EventType())
		return fmt.Errorf("expected DisputeStatusChangedEvent, got %T", event)
	}

	comment := &Comment{
		DisputeID:  statusEvent.DisputeID,
		UserID:     0,
		Comment:    fmt.Sprintf("status changed from %s to %s", statusEvent.FromStatus, statusEvent.ToStatus),
		IsInternal: true,
	}
	if err := h.repo.AddComment(comment); err != nil {
		h.logger.Error("failed to record status change comment",
			"error", err,
			"ref_no", statusEvent.RefNo,
			"event_id", statusEvent.EventID())
		return fmt.Errorf("recording status change for dispute %s: %w", statusEvent.RefNo, err)
	}

	h.logger.Info("dispute status change recorded",
		"ref_no", statusEvent.RefNo,
		"from", statusEvent.FromStatus,
		"to", statusEvent.ToStatus,
		"event_id", statusEvent.EventID())

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeDisputeStatusChanged, h.HandleStatusChanged)

	h.logger.Info("pay dispute event handlers registered",
		"handlers", []string{events.EventTypeDisputeStatusChanged})
}
