package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tablewise/restopay-backend-go/internal/pkg/audit"
	"github.com/tablewise/restopay-backend-go/internal/pkg/database"
)

type auditStore struct {
	db *database.DB
}

func NewAuditStore(db *database.DB) audit.Store {
	return &auditStore{db: db}
}

// Insert writes one audit event. Always runs on the pool rather than any
// transaction on ctx: an audit row must not be able to roll back the
// operation it describes, and a failed operation's rollback must not erase
// the record of its own audit failure path.
func (s *auditStore) Insert(ctx context.Context, event audit.Event) error {
	var details []byte
	if event.Details != nil {
		var err error
		details, err = json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (
			id, actor_role, actor_id, action, entity_type, entity_id,
			restaurant_id, reason, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.Pool.Exec(ctx, query,
		uuid.NewString(), event.ActorRole, event.ActorID, event.Action,
		event.EntityType, event.EntityID, event.RestaurantID, event.Reason,
		details,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
