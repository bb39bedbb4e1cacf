package usecase

import (
	"context"

	"github.com/iho/gosettle/internal/domain"
)

const (
	defaultAuditListLimit = 50
	maxAuditListLimit     = 200
)

// AuditUseCase exposes the audit trail.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// ListAuditLogs returns audit entries matching filter, newest first.
func (uc *AuditUseCase) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultAuditListLimit
	}
	if filter.Limit > maxAuditListLimit {
		filter.Limit = maxAuditListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, domain.NewValidationError("endDate", "must not be before startDate")
	}

	logs, err := uc.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	return logs, nil
}
