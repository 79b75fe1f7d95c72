package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"petcare-backend/internal/domains/booking/model"
	"petcare-backend/pkg/database"
)

// =====================================================
// CATALOG REPOSITORY (services, pets)
// =====================================================
type postgresCatalog struct {
	db database.Querier
}

func NewPostgresCatalog(db database.Querier) CatalogRepository {
	return &postgresCatalog{db: db}
}

func (r *postgresCatalog) FindServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Service, error) {
	query := `
		SELECT id, freelancer_id, name, price
		FROM services
		WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL
	`

	rows, err := r.db.Query(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	services := make([]model.Service, 0, len(ids))
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.FreelancerID, &s.Name, &s.Price); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}

	return services, rows.Err()
}

func (r *postgresCatalog) FindPetsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Pet, error) {
	query := `
		SELECT id, owner_id, name
		FROM pets
		WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL
	`

	rows, err := r.db.Query(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}
	defer rows.Close()

	pets := make([]model.Pet, 0, len(ids))
	for rows.Next() {
		var p model.Pet
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		pets = append(pets, p)
	}

	return pets, rows.Err()
}
