package alerts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/review-guard/pkg/models"
)

// Repository handles alert data operations
type Repository struct {
	db *pgxpool.Pool
}

// Ensure the concrete repository satisfies the service's requirements.
var _ AlertRepository = (*Repository)(nil)

// NewRepository creates a new alert repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const alertColumns = `id, alert_type, alert_level, status, seller_id, review_id, description,
		       details, risk_score, source_event, detected_at, updated_at, resolved_at, notes`

// CreateAlert creates a new alert
func (r *Repository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	detailsJSON, err := json.Marshal(alert.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO review_alerts (
			id, alert_type, alert_level, status, seller_id, review_id, description,
			details, risk_score, source_event, detected_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.Exec(ctx, query,
		alert.ID,
		alert.AlertType,
		alert.AlertLevel,
		alert.Status,
		alert.SellerID,
		alert.ReviewID,
		alert.Description,
		detailsJSON,
		alert.RiskScore,
		alert.SourceEvent,
		alert.DetectedAt,
		alert.UpdatedAt,
	)

	return err
}

// GetAlertByID retrieves an alert by ID
func (r *Repository) GetAlertByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM review_alerts WHERE id = $1`

	alert, err := scanAlert(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlertNotFound
	}
	return alert, err
}

// ListAlerts lists alerts, most urgent and newest first. An empty status lists every alert.
func (r *Repository) ListAlerts(ctx context.Context, status models.AlertStatus, limit, offset int) ([]*models.Alert, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM review_alerts WHERE ($1 = '' OR status = $1)`
	if err := r.db.QueryRow(ctx, countQuery, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + alertColumns + `
		FROM review_alerts
		WHERE ($1 = '' OR status = $1)
		ORDER BY CASE alert_level
		           WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1
		         END DESC,
		         detected_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, total, rows.Err()
}

// UpdateAlertStatus updates the status of an alert
func (r *Repository) UpdateAlertStatus(ctx context.Context, id uuid.UUID, status models.AlertStatus, notes string) error {
	query := `
		UPDATE review_alerts
		SET status = $2,
		    resolved_at = CASE WHEN $2 IN ('resolved', 'dismissed') THEN NOW() ELSE resolved_at END,
		    notes = COALESCE(NULLIF($3, ''), notes),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, string(status), notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// HasOpenAlert reports whether a pending or investigating alert already covers the subject
func (r *Repository) HasOpenAlert(ctx context.Context, alertType models.AlertType, sellerID, reviewID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM review_alerts
			WHERE alert_type = $1
			  AND seller_id = $2
			  AND review_id = $3
			  AND status IN ('pending', 'investigating')
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, string(alertType), sellerID, reviewID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open alert: %w", err)
	}
	return exists, nil
}

func scanAlert(row pgx.Row) (*models.Alert, error) {
	var alert models.Alert
	var detailsJSON []byte
	var resolvedAt sql.NullTime
	var notes, sourceEvent sql.NullString

	err := row.Scan(
		&alert.ID,
		&alert.AlertType,
		&alert.AlertLevel,
		&alert.Status,
		&alert.SellerID,
		&alert.ReviewID,
		&alert.Description,
		&detailsJSON,
		&alert.RiskScore,
		&sourceEvent,
		&alert.DetectedAt,
		&alert.UpdatedAt,
		&resolvedAt,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(detailsJSON, &alert.Details); err != nil {
		alert.Details = make(map[string]interface{})
	}
	if resolvedAt.Valid {
		alert.ResolvedAt = &resolvedAt.Time
	}
	if notes.Valid {
		alert.Notes = notes.String
	}
	if sourceEvent.Valid {
		alert.SourceEvent = sourceEvent.String
	}

	return &alert, nil
}
