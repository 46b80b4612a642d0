package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"estaty_sync/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// InitSchema creates the tables and indexes the sync pipeline writes to.
// Every statement is idempotent; safe to run on each startup.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS developers (
			id UUID PRIMARY KEY,
			external_id BIGINT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			logo_url TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cities (
			id UUID PRIMARY KEY,
			external_id BIGINT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS districts (
			id UUID PRIMARY KEY,
			external_id BIGINT NOT NULL UNIQUE,
			city_id UUID NOT NULL REFERENCES cities(id),
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS properties (
			id UUID PRIMARY KEY,
			external_id BIGINT NOT NULL UNIQUE,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			sales_status TEXT NOT NULL,
			property_type TEXT NOT NULL,
			min_price DOUBLE PRECISION,
			max_price DOUBLE PRECISION,
			currency TEXT NOT NULL DEFAULT 'AED',
			min_area DOUBLE PRECISION,
			max_area DOUBLE PRECISION,
			area_unit TEXT NOT NULL DEFAULT 'sqft',
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			delivery_date TIMESTAMPTZ,
			handover_year INT,
			handover_quarter INT,
			hero_image_url TEXT NOT NULL DEFAULT '',
			brochure_url TEXT NOT NULL DEFAULT '',
			video_url TEXT NOT NULL DEFAULT '',
			amenities TEXT[] NOT NULL DEFAULT '{}',
			facilities TEXT[] NOT NULL DEFAULT '{}',
			payment_plans TEXT[] NOT NULL DEFAULT '{}',
			key_features TEXT[] NOT NULL DEFAULT '{}',
			highlights TEXT[] NOT NULL DEFAULT '{}',
			developer_id UUID NOT NULL REFERENCES developers(id),
			city_id UUID NOT NULL REFERENCES cities(id),
			district_id UUID REFERENCES districts(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS units (
			id UUID PRIMARY KEY,
			property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			external_id BIGINT,
			unit_type TEXT NOT NULL DEFAULT '',
			bedrooms INT,
			bathrooms INT,
			size DOUBLE PRECISION,
			price DOUBLE PRECISION,
			floor TEXT NOT NULL DEFAULT '',
			view TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			availability TEXT NOT NULL DEFAULT '',
			service_charge DOUBLE PRECISION,
			payment_plan TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS property_images (
			id UUID PRIMARY KEY,
			property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			alt TEXT NOT NULL DEFAULT '',
			caption TEXT NOT NULL DEFAULT '',
			tag TEXT NOT NULL,
			sort_order INT NOT NULL DEFAULT 0,
			width INT,
			height INT,
			file_size BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS floor_plans (
			id UUID PRIMARY KEY,
			property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			plan_type TEXT NOT NULL DEFAULT '',
			bedrooms INT,
			bathrooms INT,
			size DOUBLE PRECISION,
			image_url TEXT NOT NULL DEFAULT '',
			pdf_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS sync_runs (
			id BIGSERIAL PRIMARY KEY,
			triggered_by TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			status TEXT NOT NULL,
			properties_created INT NOT NULL DEFAULT 0,
			properties_updated INT NOT NULL DEFAULT 0,
			errors_count INT NOT NULL DEFAULT 0,
			metadata JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_units_property ON units(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_property_images_property ON property_images(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_floor_plans_property ON floor_plans(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_districts_city ON districts(city_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// =============================================================================
// Developers
// =============================================================================

func (s *PostgresStore) UpsertDeveloper(ctx context.Context, d *models.Developer) error {
	query := `
		INSERT INTO developers (
			id, external_id, name, slug, description, logo_url, website, email, phone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = COALESCE(NULLIF(EXCLUDED.description, ''), developers.description),
			logo_url = COALESCE(NULLIF(EXCLUDED.logo_url, ''), developers.logo_url),
			website = COALESCE(NULLIF(EXCLUDED.website, ''), developers.website),
			email = COALESCE(NULLIF(EXCLUDED.email, ''), developers.email),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), developers.phone),
			updated_at = NOW()
		RETURNING id, slug`

	return s.pool.QueryRow(ctx, query,
		d.ID, d.ExternalID, d.Name, d.Slug, d.Description, d.LogoURL, d.Website, d.Email, d.Phone, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID, &d.Slug)
}

func (s *PostgresStore) GetDeveloperByExternalID(ctx context.Context, externalID int64) (*models.Developer, error) {
	query := `
		SELECT id, external_id, name, slug, description, logo_url, website, email, phone, created_at, updated_at
		FROM developers WHERE external_id = $1`

	var d models.Developer
	err := s.pool.QueryRow(ctx, query, externalID).Scan(
		&d.ID, &d.ExternalID, &d.Name, &d.Slug, &d.Description, &d.LogoURL, &d.Website, &d.Email, &d.Phone, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresStore) GetDeveloperBySlug(ctx context.Context, slug string) (*models.Developer, error) {
	query := `
		SELECT id, external_id, name, slug, description, logo_url, website, email, phone, created_at, updated_at
		FROM developers WHERE slug = $1`

	var d models.Developer
	err := s.pool.QueryRow(ctx, query, slug).Scan(
		&d.ID, &d.ExternalID, &d.Name, &d.Slug, &d.Description, &d.LogoURL, &d.Website, &d.Email, &d.Phone, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// =============================================================================
// Cities
// =============================================================================

func (s *PostgresStore) UpsertCity(ctx context.Context, c *models.City) error {
	query := `
		INSERT INTO cities (id, external_id, name, slug, lat, lng, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			lat = COALESCE(EXCLUDED.lat, cities.lat),
			lng = COALESCE(EXCLUDED.lng, cities.lng),
			updated_at = NOW()
		RETURNING id, slug`

	return s.pool.QueryRow(ctx, query,
		c.ID, c.ExternalID, c.Name, c.Slug, c.Lat, c.Lng, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID, &c.Slug)
}

func (s *PostgresStore) GetCityByExternalID(ctx context.Context, externalID int64) (*models.City, error) {
	query := `
		SELECT id, external_id, name, slug, lat, lng, created_at, updated_at
		FROM cities WHERE external_id = $1`

	var c models.City
	err := s.pool.QueryRow(ctx, query, externalID).Scan(
		&c.ID, &c.ExternalID, &c.Name, &c.Slug, &c.Lat, &c.Lng, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) GetCityBySlug(ctx context.Context, slug string) (*models.City, error) {
	query := `
		SELECT id, external_id, name, slug, lat, lng, created_at, updated_at
		FROM cities WHERE slug = $1`

	var c models.City
	err := s.pool.QueryRow(ctx, query, slug).Scan(
		&c.ID, &c.ExternalID, &c.Name, &c.Slug, &c.Lat, &c.Lng, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// =============================================================================
// Districts
// =============================================================================

func (s *PostgresStore) UpsertDistrict(ctx context.Context, d *models.District) error {
	query := `
		INSERT INTO districts (id, external_id, city_id, name, slug, lat, lng, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (external_id) DO UPDATE SET
			city_id = EXCLUDED.city_id,
			name = EXCLUDED.name,
			lat = COALESCE(EXCLUDED.lat, districts.lat),
			lng = COALESCE(EXCLUDED.lng, districts.lng),
			updated_at = NOW()
		RETURNING id, slug`

	return s.pool.QueryRow(ctx, query,
		d.ID, d.ExternalID, d.CityID, d.Name, d.Slug, d.Lat, d.Lng, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID, &d.Slug)
}

func (s *PostgresStore) GetDistrictByExternalID(ctx context.Context, externalID int64) (*models.District, error) {
	query := `
		SELECT id, external_id, city_id, name, slug, lat, lng, created_at, updated_at
		FROM districts WHERE external_id = $1`

	var d models.District
	err := s.pool.QueryRow(ctx, query, externalID).Scan(
		&d.ID, &d.ExternalID, &d.CityID, &d.Name, &d.Slug, &d.Lat, &d.Lng, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresStore) GetDistrictBySlug(ctx context.Context, slug string) (*models.District, error) {
	query := `
		SELECT id, external_id, city_id, name, slug, lat, lng, created_at, updated_at
		FROM districts WHERE slug = $1`

	var d models.District
	err := s.pool.QueryRow(ctx, query, slug).Scan(
		&d.ID, &d.ExternalID, &d.CityID, &d.Name, &d.Slug, &d.Lat, &d.Lng, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// =============================================================================
// Properties
// =============================================================================

const propertyColumns = `id, external_id, slug, title, description, status, sales_status, property_type,
		min_price, max_price, currency, min_area, max_area, area_unit, lat, lng,
		delivery_date, handover_year, handover_quarter, hero_image_url, brochure_url, video_url,
		amenities, facilities, payment_plans, key_features, highlights,
		developer_id, city_id, district_id, created_at, updated_at`

func (s *PostgresStore) UpsertProperty(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (` + propertyColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32
		)
		ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			sales_status = EXCLUDED.sales_status,
			property_type = EXCLUDED.property_type,
			min_price = EXCLUDED.min_price,
			max_price = EXCLUDED.max_price,
			currency = EXCLUDED.currency,
			min_area = EXCLUDED.min_area,
			max_area = EXCLUDED.max_area,
			area_unit = EXCLUDED.area_unit,
			lat = COALESCE(EXCLUDED.lat, properties.lat),
			lng = COALESCE(EXCLUDED.lng, properties.lng),
			delivery_date = COALESCE(EXCLUDED.delivery_date, properties.delivery_date),
			handover_year = COALESCE(EXCLUDED.handover_year, properties.handover_year),
			handover_quarter = COALESCE(EXCLUDED.handover_quarter, properties.handover_quarter),
			hero_image_url = COALESCE(NULLIF(EXCLUDED.hero_image_url, ''), properties.hero_image_url),
			brochure_url = COALESCE(NULLIF(EXCLUDED.brochure_url, ''), properties.brochure_url),
			video_url = COALESCE(NULLIF(EXCLUDED.video_url, ''), properties.video_url),
			amenities = EXCLUDED.amenities,
			facilities = EXCLUDED.facilities,
			payment_plans = EXCLUDED.payment_plans,
			key_features = EXCLUDED.key_features,
			highlights = EXCLUDED.highlights,
			developer_id = EXCLUDED.developer_id,
			city_id = EXCLUDED.city_id,
			district_id = EXCLUDED.district_id,
			updated_at = NOW()
		RETURNING id, slug`

	return s.pool.QueryRow(ctx, query,
		p.ID, p.ExternalID, p.Slug, p.Title, p.Description, p.Status, p.SalesStatus, p.PropertyType,
		p.MinPrice, p.MaxPrice, p.Currency, p.MinArea, p.MaxArea, p.AreaUnit, p.Lat, p.Lng,
		p.DeliveryDate, p.HandoverYear, p.HandoverQuarter, p.HeroImageURL, p.BrochureURL, p.VideoURL,
		p.Amenities, p.Facilities, p.PaymentPlans, p.KeyFeatures, p.Highlights,
		p.DeveloperID, p.CityID, p.DistrictID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.Slug)
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.Slug, &p.Title, &p.Description, &p.Status, &p.SalesStatus, &p.PropertyType,
		&p.MinPrice, &p.MaxPrice, &p.Currency, &p.MinArea, &p.MaxArea, &p.AreaUnit, &p.Lat, &p.Lng,
		&p.DeliveryDate, &p.HandoverYear, &p.HandoverQuarter, &p.HeroImageURL, &p.BrochureURL, &p.VideoURL,
		&p.Amenities, &p.Facilities, &p.PaymentPlans, &p.KeyFeatures, &p.Highlights,
		&p.DeveloperID, &p.CityID, &p.DistrictID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) GetPropertyByExternalID(ctx context.Context, externalID int64) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE external_id = $1`
	return scanProperty(s.pool.QueryRow(ctx, query, externalID))
}

func (s *PostgresStore) GetPropertyBySlug(ctx context.Context, slug string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE slug = $1`
	return scanProperty(s.pool.QueryRow(ctx, query, slug))
}

// =============================================================================
// Child collections
// =============================================================================

// ReplaceUnits swaps the full unit snapshot for a property inside one
// transaction, so a crash mid-replacement cannot leave the property with
// its children deleted but not reinserted.
func (s *PostgresStore) ReplaceUnits(ctx context.Context, propertyID uuid.UUID, units []models.Unit) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM units WHERE property_id = $1`, propertyID); err != nil {
			return fmt.Errorf("delete units: %w", err)
		}
		for i := range units {
			u := &units[i]
			_, err := tx.Exec(ctx, `
				INSERT INTO units (
					id, property_id, external_id, unit_type, bedrooms, bathrooms, size, price,
					floor, view, status, availability, service_charge, payment_plan
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
				u.ID, u.PropertyID, u.ExternalID, u.UnitType, u.Bedrooms, u.Bathrooms, u.Size, u.Price,
				u.Floor, u.View, u.Status, u.Availability, u.ServiceCharge, u.PaymentPlan,
			)
			if err != nil {
				return fmt.Errorf("insert unit: %w", err)
			}
		}
		return nil
	})
}

// ReplaceImages swaps the full image snapshot for a property, same
// transaction policy as ReplaceUnits.
func (s *PostgresStore) ReplaceImages(ctx context.Context, propertyID uuid.UUID, images []models.PropertyImage) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM property_images WHERE property_id = $1`, propertyID); err != nil {
			return fmt.Errorf("delete images: %w", err)
		}
		for i := range images {
			img := &images[i]
			_, err := tx.Exec(ctx, `
				INSERT INTO property_images (
					id, property_id, url, alt, caption, tag, sort_order, width, height, file_size
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				img.ID, img.PropertyID, img.URL, img.Alt, img.Caption, img.Tag, img.SortOrder,
				img.Width, img.Height, img.FileSize,
			)
			if err != nil {
				return fmt.Errorf("insert image: %w", err)
			}
		}
		return nil
	})
}

// ReplaceFloorPlans swaps the full floor plan snapshot for a property.
func (s *PostgresStore) ReplaceFloorPlans(ctx context.Context, propertyID uuid.UUID, plans []models.FloorPlan) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM floor_plans WHERE property_id = $1`, propertyID); err != nil {
			return fmt.Errorf("delete floor plans: %w", err)
		}
		for i := range plans {
			fp := &plans[i]
			_, err := tx.Exec(ctx, `
				INSERT INTO floor_plans (
					id, property_id, title, plan_type, bedrooms, bathrooms, size, image_url, pdf_url
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				fp.ID, fp.PropertyID, fp.Title, fp.PlanType, fp.Bedrooms, fp.Bathrooms, fp.Size,
				fp.ImageURL, fp.PDFURL,
			)
			if err != nil {
				return fmt.Errorf("insert floor plan: %w", err)
			}
		}
		return nil
	})
}

// =============================================================================
// Sync Runs
// =============================================================================

func (s *PostgresStore) CreateSyncRun(ctx context.Context, run *models.SyncRun) error {
	query := `
		INSERT INTO sync_runs (triggered_by, mode, started_at, status, properties_created, properties_updated, errors_count, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	return s.pool.QueryRow(ctx, query,
		run.TriggeredBy, run.Mode, run.StartedAt, run.Status,
		run.PropertiesCreated, run.PropertiesUpdated, run.ErrorsCount, run.Metadata,
	).Scan(&run.ID)
}

func (s *PostgresStore) UpdateSyncRun(ctx context.Context, run *models.SyncRun) error {
	query := `
		UPDATE sync_runs SET
			finished_at = $2, status = $3, properties_created = $4,
			properties_updated = $5, errors_count = $6, metadata = $7
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query,
		run.ID, run.FinishedAt, run.Status,
		run.PropertiesCreated, run.PropertiesUpdated, run.ErrorsCount, run.Metadata,
	)
	return err
}

// GetRecentSyncRuns returns the most recent run rows, newest first. Used
// by the HTTP status endpoint.
func (s *PostgresStore) GetRecentSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	query := `
		SELECT id, triggered_by, mode, started_at, finished_at, status,
			properties_created, properties_updated, errors_count, metadata
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var r models.SyncRun
		if err := rows.Scan(
			&r.ID, &r.TriggeredBy, &r.Mode, &r.StartedAt, &r.FinishedAt, &r.Status,
			&r.PropertiesCreated, &r.PropertiesUpdated, &r.ErrorsCount, &r.Metadata,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
