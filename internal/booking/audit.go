package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

const systemActor = "system"

type actorKey struct{}

// WithActor attaches the authenticated username to the context. The engine
// only uses it for attribution.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return systemActor
}

type auditEvent struct {
	action     string
	entityType string
	entityID   string
	oldStatus  string
	newStatus  string
	details    string
}

// audit queues the event in the outbox within the caller's transaction,
// so it is published only if the mutation commits.
func (e *Engine) audit(ctx context.Context, tx db.Tx, ev auditEvent) error {
	payload, err := json.Marshal(repository.AuditLogPayload{
		Timestamp:  e.timeNow().UTC(),
		Actor:      ActorFrom(ctx),
		Action:     ev.action,
		EntityType: ev.entityType,
		EntityID:   ev.entityID,
		OldStatus:  ev.oldStatus,
		NewStatus:  ev.newStatus,
		Details:    ev.details,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	task := &repository.OutboxTask{
		Topic:   e.auditTopic,
		Payload: payload,
	}
	if err := e.outbox.Create(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to queue audit event: %w", err)
	}
	return nil
}
