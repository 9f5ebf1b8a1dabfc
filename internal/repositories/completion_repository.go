package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/keyhold/leaseback-service/internal/models"
)

type CompletionRepository interface {
	Create(ctx context.Context, c *models.CompletionStatus) error
	GetByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.CompletionStatus, error)
}

type completionRepo struct {
	db DB
}

func NewCompletionRepository(db DB) CompletionRepository {
	return &completionRepo{db: db}
}

func (r *completionRepo) Create(ctx context.Context, c *models.CompletionStatus) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO completion_statuses (id, property_id, path, created_at)
        VALUES ($1,$2,$3, NOW())
    `, c.ID, c.PropertyID, string(c.Path))
	return err
}

func (r *completionRepo) GetByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.CompletionStatus, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, property_id, path, created_at
        FROM completion_statuses
        WHERE property_id=$1
    `, propertyID)

	var (
		c    models.CompletionStatus
		path string
	)
	err := row.Scan(&c.ID, &c.PropertyID, &path, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.Path = models.ConveyancingPath(path)
	return &c, nil
}
