package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
)

const auditLogColumns = `id, actor_id, actor, action, entity_type, entity_id, description,
	before_data, after_data, ip_address, user_agent, request_id, created_at`

// AuditRepository implements audit log persistence
type AuditRepository struct {
	db generated.DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	actor, err := json.Marshal(log.Actor)
	if err != nil {
		return err
	}

	beforeData, err := marshalJSON(log.BeforeData)
	if err != nil {
		return err
	}

	afterData, err := marshalJSON(log.AfterData)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_logs (` + auditLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.Exec(ctx, query,
		log.ID,
		log.ActorID,
		actor,
		string(log.Action),
		log.EntityType,
		log.EntityID,
		log.Description,
		beforeData,
		afterData,
		log.IPAddress,
		log.UserAgent,
		log.RequestID,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List retrieves audit logs matching filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var (
		conds []string
		args  []any
	)

	where := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ActorID != "" {
		where("actor_id = $%d", filter.ActorID)
	}
	if filter.Action != "" {
		where("action = $%d", filter.Action)
	}
	if filter.EntityType != "" {
		where("entity_type = $%d", filter.EntityType)
	}
	if filter.EntityID != "" {
		where("entity_id = $%d", filter.EntityID)
	}
	if filter.StartDate != nil {
		where("created_at >= $%d", timeToPgTimestamptz(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where("created_at <= $%d", timeToPgTimestamptz(*filter.EndDate))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + auditLogColumns + " FROM audit_logs")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*domain.AuditLog{}
	for rows.Next() {
		var row generated.AuditLog

		if err := rows.Scan(
			&row.ID,
			&row.ActorID,
			&row.Actor,
			&row.Action,
			&row.EntityType,
			&row.EntityID,
			&row.Description,
			&row.BeforeData,
			&row.AfterData,
			&row.IpAddress,
			&row.UserAgent,
			&row.RequestID,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}

		logs = append(logs, rowToAuditLog(row))
	}

	return logs, rows.Err()
}

func rowToAuditLog(row generated.AuditLog) *domain.AuditLog {
	log := &domain.AuditLog{
		ID:          row.ID,
		ActorID:     row.ActorID,
		Action:      domain.AuditAction(row.Action),
		EntityType:  row.EntityType,
		EntityID:    row.EntityID,
		Description: row.Description,
		IPAddress:   row.IpAddress,
		UserAgent:   row.UserAgent,
		RequestID:   row.RequestID,
		CreatedAt:   row.CreatedAt.Time,
	}

	if len(row.Actor) > 0 {
		_ = json.Unmarshal(row.Actor, &log.Actor)
	}
	if len(row.BeforeData) > 0 {
		_ = json.Unmarshal(row.BeforeData, &log.BeforeData)
	}
	if len(row.AfterData) > 0 {
		_ = json.Unmarshal(row.AfterData, &log.AfterData)
	}

	return log
}

func marshalJSON(data domain.JSON) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	return json.Marshal(data)
}
