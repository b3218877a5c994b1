package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/models"
)

type Locations struct {
	db *pgxpool.Pool
}

func NewLocations(db *pgxpool.Pool) *Locations { return &Locations{db: db} }

func (r *Locations) Get(ctx context.Context, id int64) (*models.Location, error) {
	var loc models.Location
	err := r.db.QueryRow(ctx,
		`SELECT id, name, is_published, created_at FROM locations WHERE id = $1`, id,
	).Scan(&loc.ID, &loc.Name, &loc.IsPublished, &loc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// List returns all locations, for attaching to posts.
func (r *Locations) List(ctx context.Context) ([]*models.Location, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, is_published, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []*models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.IsPublished, &loc.CreatedAt); err != nil {
			return nil, err
		}
		locs = append(locs, &loc)
	}
	return locs, rows.Err()
}
