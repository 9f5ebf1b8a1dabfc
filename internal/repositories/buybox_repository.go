package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/keyhold/leaseback-service/internal/models"
)

type BuyBoxRepository interface {
	Create(ctx context.Context, b *models.BuyBox) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BuyBox, error)
	List(ctx context.Context) ([]*models.BuyBox, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddProperty(ctx context.Context, buyBoxID, propertyID uuid.UUID) error
	RemoveProperty(ctx context.Context, buyBoxID, propertyID uuid.UUID) error
	ListPropertyIDs(ctx context.Context, buyBoxID uuid.UUID) ([]uuid.UUID, error)
}

type buyBoxRepo struct {
	db DB
}

func NewBuyBoxRepository(db DB) BuyBoxRepository {
	return &buyBoxRepo{db: db}
}

func (r *buyBoxRepo) Create(ctx context.Context, b *models.BuyBox) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO buy_boxes (id, name, created_by, created_at, updated_at)
        VALUES ($1,$2,$3, NOW(), NOW())
    `, b.ID, b.Name, b.CreatedBy)
	return err
}

func (r *buyBoxRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BuyBox, error) {
	row := r.db.QueryRow(ctx, baseSelectBuyBox()+" WHERE id=$1", id)
	return scanBuyBox(row)
}

func (r *buyBoxRepo) List(ctx context.Context) ([]*models.BuyBox, error) {
	rows, err := r.db.Query(ctx, baseSelectBuyBox()+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.BuyBox
	for rows.Next() {
		b, err := scanBuyBox(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *buyBoxRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM buy_boxes WHERE id=$1`, id)
	return err
}

func (r *buyBoxRepo) AddProperty(ctx context.Context, buyBoxID, propertyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO buy_box_properties (buy_box_id, property_id, added_at)
        VALUES ($1,$2, NOW())
        ON CONFLICT DO NOTHING
    `, buyBoxID, propertyID)
	return err
}

func (r *buyBoxRepo) RemoveProperty(ctx context.Context, buyBoxID, propertyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        DELETE FROM buy_box_properties WHERE buy_box_id=$1 AND property_id=$2
    `, buyBoxID, propertyID)
	return err
}

func (r *buyBoxRepo) ListPropertyIDs(ctx context.Context, buyBoxID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
        SELECT property_id FROM buy_box_properties
        WHERE buy_box_id=$1 ORDER BY added_at
    `, buyBoxID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func baseSelectBuyBox() string {
	return `
        SELECT id, name, created_by, created_at, updated_at
        FROM buy_boxes
    `
}

func scanBuyBox(row pgx.Row) (*models.BuyBox, error) {
	var b models.BuyBox
	err := row.Scan(&b.ID, &b.Name, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
