// Package audit emits one structured event per mutating call. Recording is
// fire-and-forget: a failing sink is logged and never aborts the operation
// that produced the event.
package audit

import (
	"context"
	"log/slog"
)

// Actions emitted by the salary services.
const (
	ActionCreateSalaryConfig  = "CREATE_SALARY_CONFIG"
	ActionUpdateSalaryConfig  = "UPDATE_SALARY_CONFIG"
	ActionCreateSalaryPayment = "CREATE_SALARY_PAYMENT"
	ActionUpdateSalaryPayment = "UPDATE_SALARY_PAYMENT"
	ActionDeleteSalaryPayment = "DELETE_SALARY_PAYMENT"
	ActionCreateAdvance       = "CREATE_ADVANCE_PAYMENT"
	ActionUpdateAdvance       = "UPDATE_ADVANCE_PAYMENT"
	ActionDeleteAdvance       = "DELETE_ADVANCE_PAYMENT"
)

type Event struct {
	ActorRole    string
	ActorID      string
	Action       string
	EntityType   string
	EntityID     string
	RestaurantID string
	Reason       *string
	Details      map[string]interface{}
}

type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Store is an optional durable sink for audit events.
type Store interface {
	Insert(ctx context.Context, event Event) error
}

type LogRecorder struct {
	logger *slog.Logger
	store  Store
}

// NewLogRecorder returns a Recorder that logs every event through logger and,
// when store is non-nil, also persists it.
func NewLogRecorder(logger *slog.Logger, store Store) *LogRecorder {
	return &LogRecorder{logger: logger, store: store}
}

func (r *LogRecorder) Record(ctx context.Context, event Event) {
	attrs := []any{
		slog.String("actor_role", event.ActorRole),
		slog.String("actor_id", event.ActorID),
		slog.String("action", event.Action),
		slog.String("entity_type", event.EntityType),
		slog.String("entity_id", event.EntityID),
		slog.String("restaurant_id", event.RestaurantID),
	}
	if event.Reason != nil {
		attrs = append(attrs, slog.String("reason", *event.Reason))
	}
	if len(event.Details) > 0 {
		attrs = append(attrs, slog.Any("details", event.Details))
	}
	r.logger.InfoContext(ctx, "audit", attrs...)

	if r.store == nil {
		return
	}
	if err := r.store.Insert(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "audit sink write failed",
			slog.String("action", event.Action),
			slog.String("entity_id", event.EntityID),
			slog.Any("error", err),
		)
	}
}
