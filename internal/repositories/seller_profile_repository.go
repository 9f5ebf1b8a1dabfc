package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/keyhold/leaseback-service/internal/models"
	"github.com/keyhold/leaseback-service/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type SellerProfileRepository interface {
	Create(ctx context.Context, p *models.SellerProfile) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.SellerProfile, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.SellerProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.SellerProfile, error)

	Update(ctx context.Context, p *models.SellerProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type sellerProfileRepo struct {
	db     DB
	encKey []byte
}

func NewSellerProfileRepository(db DB, key []byte) SellerProfileRepository {
	return &sellerProfileRepo{db: db, encKey: key}
}

func (r *sellerProfileRepo) Create(ctx context.Context, p *models.SellerProfile) error {
	encFirst, encLast, encEmail, encDOB, dobSort, err := r.encryptFields(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO seller_profiles (
            id, user_id, first_name, last_name,
            email, email_hash, date_of_birth, dob_sort_key,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW())
    `,
		p.ID, p.UserID, encFirst, encLast,
		encEmail, utils.EqualityHash(p.Email), encDOB, dobSort,
	)
	return err
}

func (r *sellerProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SellerProfile, error) {
	row := r.db.QueryRow(ctx, baseSelectSellerProfile()+" WHERE id=$1", id)
	return r.scanSellerProfile(row)
}

func (r *sellerProfileRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.SellerProfile, error) {
	rows, err := r.db.Query(ctx, baseSelectSellerProfile()+" WHERE user_id=$1 ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SellerProfile
	for rows.Next() {
		p, err := r.scanSellerProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByEmail matches on the equality hash, so the encrypted column is never
// decrypted at query time.
func (r *sellerProfileRepo) GetByEmail(ctx context.Context, email string) (*models.SellerProfile, error) {
	row := r.db.QueryRow(ctx, baseSelectSellerProfile()+" WHERE email_hash=$1", utils.EqualityHash(email))
	return r.scanSellerProfile(row)
}

func (r *sellerProfileRepo) Update(ctx context.Context, p *models.SellerProfile) error {
	encFirst, encLast, encEmail, encDOB, dobSort, err := r.encryptFields(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        UPDATE seller_profiles SET
            first_name=$1, last_name=$2,
            email=$3, email_hash=$4, date_of_birth=$5, dob_sort_key=$6,
            updated_at=NOW()
        WHERE id=$7
    `,
		encFirst, encLast, encEmail, utils.EqualityHash(p.Email), encDOB, dobSort, p.ID,
	)
	return err
}

func (r *sellerProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM seller_profiles WHERE id=$1`, id)
	return err
}

func (r *sellerProfileRepo) encryptFields(p *models.SellerProfile) (encFirst, encLast, encEmail, encDOB, dobSort string, err error) {
	if encFirst, err = encryptString(r.encKey, "first_name", p.FirstName); err != nil {
		return
	}
	if encLast, err = encryptString(r.encKey, "last_name", p.LastName); err != nil {
		return
	}
	if encEmail, err = encryptString(r.encKey, "email", p.Email); err != nil {
		return
	}
	if encDOB, err = encryptNullableDate(r.encKey, "date_of_birth", p.DateOfBirth); err != nil {
		return
	}
	if p.DateOfBirth != nil {
		dobSort = utils.DateSortKey(*p.DateOfBirth)
	}
	return
}

func baseSelectSellerProfile() string {
	return `
        SELECT
            id, user_id, first_name, last_name,
            email, date_of_birth,
            created_at, updated_at
        FROM seller_profiles
    `
}

func (r *sellerProfileRepo) scanSellerProfile(row pgx.Row) (*models.SellerProfile, error) {
	var (
		p        models.SellerProfile
		encFirst string
		encLast  string
		encEmail string
		encDOB   string
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&encFirst,
		&encLast,
		&encEmail,
		&encDOB,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if p.FirstName, err = decryptString(r.encKey, "first_name", encFirst); err != nil {
		return nil, err
	}
	if p.LastName, err = decryptString(r.encKey, "last_name", encLast); err != nil {
		return nil, err
	}
	if p.Email, err = decryptString(r.encKey, "email", encEmail); err != nil {
		return nil, err
	}
	if p.DateOfBirth, err = decryptNullableDate(r.encKey, "date_of_birth", encDOB); err != nil {
		return nil, err
	}
	return &p, nil
}
