package sellerrisk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/review-guard/pkg/models"
)

// Repository handles seller risk data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new seller risk repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveAssessment appends an assessment to the seller's history
func (r *Repository) SaveAssessment(ctx context.Context, a *models.SellerRiskAssessment) error {
	patternsJSON, err := json.Marshal(a.Patterns)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO seller_risk_assessments (
			id, seller_id, total_reviews, fake_reviews, fake_review_percentage,
			suspicious_patterns, risk_score, risk_level, risk_factors, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.Exec(ctx, query,
		a.ID,
		a.SellerID,
		a.TotalReviews,
		a.FakeReviews,
		a.FakeReviewPercentage,
		patternsJSON,
		a.RiskScore,
		a.RiskLevel,
		a.RiskFactors,
		a.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// GetRiskHistory lists a seller's assessments, newest first, with the total count
func (r *Repository) GetRiskHistory(ctx context.Context, sellerID string, limit, offset int) ([]*models.SellerRiskAssessment, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM seller_risk_assessments WHERE seller_id = $1`, sellerID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, seller_id, total_reviews, fake_reviews, fake_review_percentage,
		       suspicious_patterns, risk_score, risk_level, risk_factors, generated_at
		FROM seller_risk_assessments
		WHERE seller_id = $1
		ORDER BY generated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	history := make([]*models.SellerRiskAssessment, 0)
	for rows.Next() {
		var a models.SellerRiskAssessment
		var patternsJSON []byte

		if err := rows.Scan(
			&a.ID,
			&a.SellerID,
			&a.TotalReviews,
			&a.FakeReviews,
			&a.FakeReviewPercentage,
			&patternsJSON,
			&a.RiskScore,
			&a.RiskLevel,
			&a.RiskFactors,
			&a.GeneratedAt,
		); err != nil {
			return nil, 0, err
		}

		if err := json.Unmarshal(patternsJSON, &a.Patterns); err != nil {
			a.Patterns = models.PatternCounts{}
		}
		if a.RiskFactors == nil {
			a.RiskFactors = []string{}
		}

		history = append(history, &a)
	}

	return history, total, rows.Err()
}

// CreateViolation records a delivery violation
func (r *Repository) CreateViolation(ctx context.Context, v *models.DeliveryViolation) error {
	query := `
		INSERT INTO delivery_violations (
			id, seller_id, order_id, customer_id, violation_type, severity,
			description, order_value, occurred_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		v.ID,
		v.SellerID,
		v.OrderID,
		v.CustomerID,
		v.Type,
		v.Severity,
		v.Description,
		v.OrderValue,
		v.OccurredAt,
		v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert violation: %w", err)
	}
	return nil
}

const violationColumns = `id, seller_id, order_id, customer_id, violation_type, severity,
		       description, order_value, occurred_at, created_at`

// GetViolationsBySeller lists a seller's violations, newest first, with the total count
func (r *Repository) GetViolationsBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*models.DeliveryViolation, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM delivery_violations WHERE seller_id = $1`, sellerID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	violations, err := r.queryViolations(ctx, `
		SELECT `+violationColumns+`
		FROM delivery_violations
		WHERE seller_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2 OFFSET $3
	`, sellerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return violations, total, nil
}

// GetAllViolationsBySeller loads every violation for a seller
func (r *Repository) GetAllViolationsBySeller(ctx context.Context, sellerID string) ([]*models.DeliveryViolation, error) {
	return r.queryViolations(ctx, `
		SELECT `+violationColumns+`
		FROM delivery_violations
		WHERE seller_id = $1
		ORDER BY occurred_at DESC
	`, sellerID)
}

func (r *Repository) queryViolations(ctx context.Context, query string, args ...interface{}) ([]*models.DeliveryViolation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	violations := make([]*models.DeliveryViolation, 0)
	for rows.Next() {
		var v models.DeliveryViolation
		if err := rows.Scan(
			&v.ID,
			&v.SellerID,
			&v.OrderID,
			&v.CustomerID,
			&v.Type,
			&v.Severity,
			&v.Description,
			&v.OrderValue,
			&v.OccurredAt,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		violations = append(violations, &v)
	}
	return violations, rows.Err()
}
