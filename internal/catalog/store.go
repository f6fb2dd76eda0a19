package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store implements Source on top of PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const listDeviceTypesSQL = `
SELECT id, name
FROM device_types
ORDER BY name`

// ListDeviceTypes returns all device types.
func (s *Store) ListDeviceTypes(ctx context.Context) ([]DeviceType, error) {
	rows, err := s.pool.Query(ctx, listDeviceTypesSQL)
	if err != nil {
		return nil, fmt.Errorf("query device types: %w", err)
	}
	defer rows.Close()

	var out []DeviceType
	for rows.Next() {
		var dt DeviceType
		if err := rows.Scan(&dt.ID, &dt.Name); err != nil {
			return nil, fmt.Errorf("scan device type: %w", err)
		}
		out = append(out, dt)
	}
	return out, rows.Err()
}

const brandsByTypeSQL = `
SELECT id, device_type_id, name
FROM brands
WHERE device_type_id = $1
ORDER BY name`

// BrandsByType returns the brands under one device type.
func (s *Store) BrandsByType(ctx context.Context, typeID string) ([]Brand, error) {
	rows, err := s.pool.Query(ctx, brandsByTypeSQL, typeID)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	var out []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.DeviceTypeID, &b.Name); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const modelsByBrandSQL = `
SELECT id, brand_id, name
FROM models
WHERE brand_id = $1
ORDER BY name`

// ModelsByBrand returns the models under one brand.
func (s *Store) ModelsByBrand(ctx context.Context, brandID string) ([]Model, error) {
	rows, err := s.pool.Query(ctx, modelsByBrandSQL, brandID)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}
	defer rows.Close()

	var out []Model
	for rows.Next() {
		var m Model
		if err := rows.Scan(&m.ID, &m.BrandID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const servicesByTypeSQL = `
SELECT id, device_type_id, name, price::text, COALESCE(tax_ref, '')
FROM services
WHERE device_type_id = $1
ORDER BY name`

// ServicesByType returns the repair services offered for one device type.
func (s *Store) ServicesByType(ctx context.Context, typeID string) ([]ServiceItem, error) {
	rows, err := s.pool.Query(ctx, servicesByTypeSQL, typeID)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var out []ServiceItem
	for rows.Next() {
		var (
			item  ServiceItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.DeviceTypeID, &item.Name, &price, &item.TaxRef); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse service price %q: %w", price, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const searchPartsSQL = `
SELECT id, name, price::text, COALESCE(tax_ref, '')
FROM parts
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
ORDER BY name
LIMIT $2`

// SearchParts returns stocked parts matching the name fragment.
func (s *Store) SearchParts(ctx context.Context, query string, limit int) ([]Part, error) {
	rows, err := s.pool.Query(ctx, searchPartsSQL, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query parts: %w", err)
	}
	defer rows.Close()

	var out []Part
	for rows.Next() {
		var (
			part  Part
			price string
		)
		if err := rows.Scan(&part.ID, &part.Name, &price, &part.TaxRef); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		part.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse part price %q: %w", price, err)
		}
		out = append(out, part)
	}
	return out, rows.Err()
}

const getBrandSQL = `
SELECT id, device_type_id, name
FROM brands
WHERE id = $1`

// GetBrand looks a brand up by id.
func (s *Store) GetBrand(ctx context.Context, id string) (Brand, error) {
	var b Brand
	err := s.pool.QueryRow(ctx, getBrandSQL, id).Scan(&b.ID, &b.DeviceTypeID, &b.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Brand{}, ErrNotFound
		}
		return Brand{}, fmt.Errorf("get brand: %w", err)
	}
	return b, nil
}

const getServiceSQL = `
SELECT id, device_type_id, name, price::text, COALESCE(tax_ref, '')
FROM services
WHERE id = $1`

// GetService looks a repair service up by id.
func (s *Store) GetService(ctx context.Context, id string) (ServiceItem, error) {
	var (
		item  ServiceItem
		price string
	)
	err := s.pool.QueryRow(ctx, getServiceSQL, id).Scan(&item.ID, &item.DeviceTypeID, &item.Name, &price, &item.TaxRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceItem{}, ErrNotFound
		}
		return ServiceItem{}, fmt.Errorf("get service: %w", err)
	}
	item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return ServiceItem{}, fmt.Errorf("parse service price %q: %w", price, err)
	}
	return item, nil
}

const getModelSQL = `
SELECT id, brand_id, name
FROM models
WHERE id = $1`

// GetModel looks a model up by id.
func (s *Store) GetModel(ctx context.Context, id string) (Model, error) {
	var m Model
	err := s.pool.QueryRow(ctx, getModelSQL, id).Scan(&m.ID, &m.BrandID, &m.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Model{}, ErrNotFound
		}
		return Model{}, fmt.Errorf("get model: %w", err)
	}
	return m, nil
}
