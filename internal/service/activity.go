package service

import (
	"context"
	"time"

	"github.com/balmandal/community-api/internal/events"
	"github.com/balmandal/community-api/internal/logging"
	"github.com/balmandal/community-api/internal/models"
	"github.com/balmandal/community-api/internal/store"
)

// ActivityRecorder writes the back-office audit trail: one document in the
// logs collection and, when a broker is configured, one Kafka event. Both
// writes are best-effort; a failed audit write never fails the action
// itself.
type ActivityRecorder struct {
	Logs     *store.ActivityLogStore
	Producer *events.Producer
}

func (r *ActivityRecorder) Record(ctx context.Context, action, performedBy, target, targetID string, details map[string]any) {
	l := logging.FromContext(ctx)

	if r.Logs != nil {
		entry := models.ActivityLog{
			Action:      action,
			PerformedBy: performedBy,
			Target:      target,
			TargetID:    targetID,
			Details:     details,
			Timestamp:   time.Now(),
		}
		if err := r.Logs.Insert(ctx, &entry); err != nil {
			l.Error("activity log insert failed", "action", action, "error", err)
		}
	}

	event := map[string]any{
		"type":        action,
		"performedBy": performedBy,
		"target":      target,
		"targetId":    targetID,
	}
	for k, v := range details {
		event[k] = v
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Producer.PublishEvent(pubCtx, performedBy, event); err != nil {
		l.Error("activity event publish failed", "action", action, "error", err)
	}
}
