package intake

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements Recorder on top of PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const insertLeadSQL = `
INSERT INTO leads (name, phone, email, device_type_id, brand_id, model_id, service_id, issue)
VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
RETURNING id, created_at`

// InsertLead stores one enquiry.
func (s *Store) InsertLead(ctx context.Context, in LeadInput) (Lead, error) {
	lead := Lead{LeadInput: in}
	err := s.pool.QueryRow(ctx, insertLeadSQL,
		in.Name, in.Phone, in.Email, in.DeviceTypeID, in.BrandID, in.ModelID, in.ServiceID, in.Issue,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

const insertCheckInSQL = `
INSERT INTO checkins (name, phone, device_type_id, brand_id, model_id, notes)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
RETURNING id, created_at`

// InsertCheckIn stores one walk-in registration.
func (s *Store) InsertCheckIn(ctx context.Context, in CheckInInput) (CheckIn, error) {
	checkin := CheckIn{CheckInInput: in}
	err := s.pool.QueryRow(ctx, insertCheckInSQL,
		in.Name, in.Phone, in.DeviceTypeID, in.BrandID, in.ModelID, in.Notes,
	).Scan(&checkin.ID, &checkin.CreatedAt)
	if err != nil {
		return CheckIn{}, fmt.Errorf("insert checkin: %w", err)
	}
	return checkin, nil
}
