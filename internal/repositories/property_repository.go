package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/keyhold/leaseback-service/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	// GetBySellerProfileIDs finds the property owned by any of the given
	// seller profiles. At most one is expected per application.
	GetBySellerProfileIDs(ctx context.Context, sellerIDs []uuid.UUID) (*models.Property, error)

	Update(ctx context.Context, p *models.Property) error
	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error
	Delete(ctx context.Context, id uuid.UUID) error

	UpsertOwnership(ctx context.Context, o *models.PropertyOwnership) error
	ListOwnership(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyOwnership, error)

	ListAll(ctx context.Context) ([]*models.Property, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	*BaseVersionedRepo[*models.Property]
	db     DB
	encKey []byte
}

func NewPropertyRepository(db DB, key []byte) PropertyRepository {
	r := &propertyRepo{db: db, encKey: key}
	selectStmt := baseSelectProperty() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanProperty)
	return r
}

type encryptedPropertyFields struct {
	leaseYears     string
	bedrooms       string
	bathrooms      string
	floorArea      string
	estimatedValue string
	addrLine1      string
	addrLine2      string
	addrCity       string
	addrPostcode   string
	documentNames  string
}

func (r *propertyRepo) encryptFields(p *models.Property) (*encryptedPropertyFields, error) {
	var (
		f   encryptedPropertyFields
		err error
	)
	if f.leaseYears, err = encryptNullableInt(r.encKey, "lease_years_remaining", p.LeaseYearsRemaining); err != nil {
		return nil, err
	}
	if f.bedrooms, err = encryptInt(r.encKey, "bedrooms", p.Bedrooms); err != nil {
		return nil, err
	}
	if f.bathrooms, err = encryptInt(r.encKey, "bathrooms", p.Bathrooms); err != nil {
		return nil, err
	}
	if f.floorArea, err = encryptNullableFloat(r.encKey, "floor_area_sqm", p.FloorAreaSqm); err != nil {
		return nil, err
	}
	if f.estimatedValue, err = encryptNullableFloat(r.encKey, "estimated_value", p.EstimatedValue); err != nil {
		return nil, err
	}
	if f.documentNames, err = encryptStringList(r.encKey, "document_names", p.DocumentNames); err != nil {
		return nil, err
	}
	if p.Address != nil {
		if f.addrLine1, err = encryptString(r.encKey, "address_line1", p.Address.Line1); err != nil {
			return nil, err
		}
		if f.addrLine2, err = encryptNullableString(r.encKey, "address_line2", p.Address.Line2); err != nil {
			return nil, err
		}
		if f.addrCity, err = encryptString(r.encKey, "address_city", p.Address.City); err != nil {
			return nil, err
		}
		if f.addrPostcode, err = encryptString(r.encKey, "address_postcode", p.Address.Postcode); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	f, err := r.encryptFields(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO properties (
            id, property_type, tenure, lease_years_remaining,
            bedrooms, bathrooms, floor_area_sqm, condition, estimated_value,
            address_line1, address_line2, address_city, address_postcode,
            document_names,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, NOW(), NOW(), 1)
    `,
		p.ID, p.PropertyType, p.Tenure, f.leaseYears,
		f.bedrooms, f.bathrooms, f.floorArea, p.Condition, f.estimatedValue,
		f.addrLine1, f.addrLine2, f.addrCity, f.addrPostcode,
		f.documentNames,
	)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *propertyRepo) GetBySellerProfileIDs(ctx context.Context, sellerIDs []uuid.UUID) (*models.Property, error) {
	if len(sellerIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(sellerIDs))
	for i, id := range sellerIDs {
		ids[i] = id.String()
	}
	row := r.db.QueryRow(ctx, baseSelectProperty()+`
        WHERE id IN (
            SELECT property_id FROM property_ownership
            WHERE seller_profile_id = ANY($1::uuid[])
        )
        ORDER BY created_at
        LIMIT 1
    `, ids)
	return r.scanProperty(row)
}

func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	_, err := r.update(ctx, p, false, 0)
	return err
}

func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, p, true, expected)
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *propertyRepo) update(ctx context.Context, p *models.Property, check bool, expected int64) (pgconn.CommandTag, error) {
	f, err := r.encryptFields(p)
	if err != nil {
		return nil, err
	}
	sql := `
        UPDATE properties SET
            property_type=$1, tenure=$2, lease_years_remaining=$3,
            bedrooms=$4, bathrooms=$5, floor_area_sqm=$6, condition=$7,
            estimated_value=$8,
            address_line1=$9, address_line2=$10, address_city=$11, address_postcode=$12,
            document_names=$13, updated_at=NOW()
    `
	args := []any{
		p.PropertyType, p.Tenure, f.leaseYears,
		f.bedrooms, f.bathrooms, f.floorArea, p.Condition,
		f.estimatedValue,
		f.addrLine1, f.addrLine2, f.addrCity, f.addrPostcode,
		f.documentNames,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$14 AND row_version=$15`
		args = append(args, p.ID, expected)
	} else {
		sql += ` WHERE id=$14`
		args = append(args, p.ID)
	}

	return r.db.Exec(ctx, sql, args...)
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	return err
}

func (r *propertyRepo) UpsertOwnership(ctx context.Context, o *models.PropertyOwnership) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO property_ownership (property_id, seller_profile_id, percentage)
        VALUES ($1,$2,$3)
        ON CONFLICT (property_id, seller_profile_id)
        DO UPDATE SET percentage = EXCLUDED.percentage
    `, o.PropertyID, o.SellerProfileID, o.Percentage)
	return err
}

func (r *propertyRepo) ListOwnership(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyOwnership, error) {
	rows, err := r.db.Query(ctx, `
        SELECT property_id, seller_profile_id, percentage
        FROM property_ownership
        WHERE property_id=$1
        ORDER BY seller_profile_id
    `, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PropertyOwnership
	for rows.Next() {
		var o models.PropertyOwnership
		if err := rows.Scan(&o.PropertyID, &o.SellerProfileID, &o.Percentage); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

func (r *propertyRepo) ListAll(ctx context.Context) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, baseSelectProperty()+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := r.scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func baseSelectProperty() string {
	return `
        SELECT
            id, property_type, tenure, lease_years_remaining,
            bedrooms, bathrooms, floor_area_sqm, condition, estimated_value,
            address_line1, address_line2, address_city, address_postcode,
            document_names,
            created_at, updated_at, row_version
        FROM properties
    `
}

func (r *propertyRepo) scanProperty(row pgx.Row) (*models.Property, error) {
	var (
		p models.Property
		f encryptedPropertyFields
	)
	err := row.Scan(
		&p.ID,
		&p.PropertyType,
		&p.Tenure,
		&f.leaseYears,
		&f.bedrooms,
		&f.bathrooms,
		&f.floorArea,
		&p.Condition,
		&f.estimatedValue,
		&f.addrLine1,
		&f.addrLine2,
		&f.addrCity,
		&f.addrPostcode,
		&f.documentNames,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if p.LeaseYearsRemaining, err = decryptNullableInt(r.encKey, "lease_years_remaining", f.leaseYears); err != nil {
		return nil, err
	}
	if p.Bedrooms, err = decryptInt(r.encKey, "bedrooms", f.bedrooms); err != nil {
		return nil, err
	}
	if p.Bathrooms, err = decryptInt(r.encKey, "bathrooms", f.bathrooms); err != nil {
		return nil, err
	}
	if p.FloorAreaSqm, err = decryptNullableFloat(r.encKey, "floor_area_sqm", f.floorArea); err != nil {
		return nil, err
	}
	if p.EstimatedValue, err = decryptNullableFloat(r.encKey, "estimated_value", f.estimatedValue); err != nil {
		return nil, err
	}
	if p.DocumentNames, err = decryptStringList(r.encKey, "document_names", f.documentNames); err != nil {
		return nil, err
	}
	if f.addrLine1 != "" {
		addr := &models.Address{}
		if addr.Line1, err = decryptString(r.encKey, "address_line1", f.addrLine1); err != nil {
			return nil, err
		}
		if addr.Line2, err = decryptNullableString(r.encKey, "address_line2", f.addrLine2); err != nil {
			return nil, err
		}
		if addr.City, err = decryptString(r.encKey, "address_city", f.addrCity); err != nil {
			return nil, err
		}
		if addr.Postcode, err = decryptString(r.encKey, "address_postcode", f.addrPostcode); err != nil {
			return nil, err
		}
		p.Address = addr
	}
	return &p, nil
}
