package postgres

import (
	"context"

	"github.com/sensamie/blogging-api/internal/models"
	repo "github.com/sensamie/blogging-api/internal/repository"
)

type auditEventsRepo struct{ q Querier }

func NewAuditEvents(q Querier) repo.AuditEvents { return &auditEventsRepo{q: q} }

func (r *auditEventsRepo) Create(ctx context.Context, e models.AuditEvent) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO audit_events(entity_type, entity_id, action, details) VALUES($1,$2,$3,$4)`,
		e.EntityType, e.EntityID, e.Action, e.Details,
	)
	return err
}
