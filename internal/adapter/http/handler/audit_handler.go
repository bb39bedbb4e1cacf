package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
)

// AuditService exposes the audit trail.
type AuditService interface {
	ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler serves audit log queries.
type AuditHandler struct {
	auditUC AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC AuditService) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// List returns audit entries filtered by the query string.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.AuditFilter{
		ActorID:    q.Get("actorId"),
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
		Limit:      parseIntQuery(r, "limit", 0),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	verr := &domain.ValidationError{}
	filter.StartDate = parseTimeQuery(r, "startDate", verr)
	filter.EndDate = parseTimeQuery(r, "endDate", verr)
	if err := verr.OrNil(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	logs, err := h.auditUC.ListAuditLogs(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": dto.AuditLogsFromDomain(logs)})
}

func parseTimeQuery(r *http.Request, key string, verr *domain.ValidationError) *time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		verr.Add(key, "must be an RFC 3339 timestamp")
		return nil
	}

	return &t
}
