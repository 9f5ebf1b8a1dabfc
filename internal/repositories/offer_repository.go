package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/keyhold/leaseback-service/internal/models"
	"github.com/keyhold/leaseback-service/internal/utils"
)

type OfferRepository interface {
	Create(ctx context.Context, o *models.Offer) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	// LatestByPropertyID returns the canonical offer: most recent by
	// created_at, with id as a deterministic tie-break.
	LatestByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.Offer, error)
	ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Offer, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OfferStatus) error
}

type offerRepo struct {
	db     DB
	encKey []byte
}

func NewOfferRepository(db DB, key []byte) OfferRepository {
	return &offerRepo{db: db, encKey: key}
}

func (r *offerRepo) Create(ctx context.Context, o *models.Offer) error {
	encPrice, err := encryptFloat(r.encKey, "purchase_price", o.PurchasePrice)
	if err != nil {
		return err
	}
	encRent, err := encryptFloat(r.encKey, "monthly_rent", o.MonthlyRent)
	if err != nil {
		return err
	}
	encTerm, err := encryptInt(r.encKey, "lease_term_years", o.LeaseTermYears)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO offers (
            id, property_id, purchase_price, monthly_rent, lease_term_years,
            status, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW())
    `,
		o.ID, o.PropertyID, encPrice, encRent, encTerm, string(o.Status),
	)
	return err
}

func (r *offerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	row := r.db.QueryRow(ctx, baseSelectOffer()+" WHERE id=$1", id)
	return r.scanOffer(row)
}

func (r *offerRepo) LatestByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.Offer, error) {
	row := r.db.QueryRow(ctx,
		baseSelectOffer()+" WHERE property_id=$1 ORDER BY created_at DESC, id DESC LIMIT 1",
		propertyID,
	)
	return r.scanOffer(row)
}

func (r *offerRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Offer, error) {
	rows, err := r.db.Query(ctx,
		baseSelectOffer()+" WHERE property_id=$1 ORDER BY created_at DESC, id DESC",
		propertyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Offer
	for rows.Next() {
		o, err := r.scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *offerRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OfferStatus) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE offers SET status=$1, updated_at=NOW() WHERE id=$2
    `, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func baseSelectOffer() string {
	return `
        SELECT
            id, property_id, purchase_price, monthly_rent, lease_term_years,
            status, created_at, updated_at
        FROM offers
    `
}

func (r *offerRepo) scanOffer(row pgx.Row) (*models.Offer, error) {
	var (
		o        models.Offer
		encPrice string
		encRent  string
		encTerm  string
		status   string
	)
	err := row.Scan(
		&o.ID,
		&o.PropertyID,
		&encPrice,
		&encRent,
		&encTerm,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	o.Status = models.OfferStatus(status)

	if o.PurchasePrice, err = decryptFloat(r.encKey, "purchase_price", encPrice); err != nil {
		return nil, err
	}
	if o.MonthlyRent, err = decryptFloat(r.encKey, "monthly_rent", encRent); err != nil {
		return nil, err
	}
	if o.LeaseTermYears, err = decryptInt(r.encKey, "lease_term_years", encTerm); err != nil {
		return nil, err
	}
	return &o, nil
}
