package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/keyhold/leaseback-service/internal/models"
	"github.com/keyhold/leaseback-service/internal/utils"
)

type ReviewRepository interface {
	Create(ctx context.Context, rev *models.ApplicationReview) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationReview, error)
	// LatestByPropertyID returns the canonical review: most recent by
	// created_at, with id as a deterministic tie-break.
	LatestByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.ApplicationReview, error)
	ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.ApplicationReview, error)

	Update(ctx context.Context, rev *models.ApplicationReview) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) error
}

type reviewRepo struct {
	db     DB
	encKey []byte
}

func NewReviewRepository(db DB, key []byte) ReviewRepository {
	return &reviewRepo{db: db, encKey: key}
}

func (r *reviewRepo) Create(ctx context.Context, rev *models.ApplicationReview) error {
	encChecklist, err := encryptBoolMap(r.encKey, "checklist", rev.Checklist)
	if err != nil {
		return err
	}
	encConsiderations, err := encryptBoolMap(r.encKey, "considerations", rev.Considerations)
	if err != nil {
		return err
	}
	// Retire the previous live review first. The partial unique index on
	// (property_id) WHERE superseded = FALSE makes a concurrent insert fail
	// rather than leave two live reviews.
	_, err = r.db.Exec(ctx, `
        UPDATE application_reviews SET superseded=TRUE, updated_at=NOW()
        WHERE property_id=$1 AND superseded=FALSE
    `, rev.PropertyID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO application_reviews (
            id, property_id, checklist, considerations, status,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5, NOW(), NOW())
    `,
		rev.ID, rev.PropertyID, encChecklist, encConsiderations, string(rev.Status),
	)
	return err
}

func (r *reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationReview, error) {
	row := r.db.QueryRow(ctx, baseSelectReview()+" WHERE id=$1", id)
	return r.scanReview(row)
}

func (r *reviewRepo) LatestByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.ApplicationReview, error) {
	row := r.db.QueryRow(ctx,
		baseSelectReview()+" WHERE property_id=$1 ORDER BY created_at DESC, id DESC LIMIT 1",
		propertyID,
	)
	return r.scanReview(row)
}

func (r *reviewRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.ApplicationReview, error) {
	rows, err := r.db.Query(ctx,
		baseSelectReview()+" WHERE property_id=$1 ORDER BY created_at DESC, id DESC",
		propertyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ApplicationReview
	for rows.Next() {
		rev, err := r.scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *reviewRepo) Update(ctx context.Context, rev *models.ApplicationReview) error {
	encChecklist, err := encryptBoolMap(r.encKey, "checklist", rev.Checklist)
	if err != nil {
		return err
	}
	encConsiderations, err := encryptBoolMap(r.encKey, "considerations", rev.Considerations)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        UPDATE application_reviews SET
            checklist=$1, considerations=$2, status=$3, updated_at=NOW()
        WHERE id=$4
    `,
		encChecklist, encConsiderations, string(rev.Status), rev.ID,
	)
	return err
}

func (r *reviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE application_reviews SET status=$1, updated_at=NOW() WHERE id=$2
    `, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func baseSelectReview() string {
	return `
        SELECT
            id, property_id, checklist, considerations, status,
            created_at, updated_at
        FROM application_reviews
    `
}

func (r *reviewRepo) scanReview(row pgx.Row) (*models.ApplicationReview, error) {
	var (
		rev               models.ApplicationReview
		encChecklist      string
		encConsiderations string
		status            string
	)
	err := row.Scan(
		&rev.ID,
		&rev.PropertyID,
		&encChecklist,
		&encConsiderations,
		&status,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	// Status rows predate the closed-set validation at the API boundary, so
	// the raw value is kept as-is; the resolver treats anything unexpected
	// as still pending.
	rev.Status = models.ReviewStatus(status)

	if rev.Checklist, err = decryptBoolMap(r.encKey, "checklist", encChecklist); err != nil {
		return nil, err
	}
	if rev.Considerations, err = decryptBoolMap(r.encKey, "considerations", encConsiderations); err != nil {
		return nil, err
	}
	return &rev, nil
}
