package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/models"
)

type Categories struct {
	db *pgxpool.Pool
}

func NewCategories(db *pgxpool.Pool) *Categories { return &Categories{db: db} }

// GetBySlug returns the category regardless of its published flag;
// callers decide whether an unpublished one may be shown.
func (r *Categories) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description, slug, is_published, created_at
		 FROM categories WHERE slug = $1`, slug,
	).Scan(&cat.ID, &cat.Title, &cat.Description, &cat.Slug, &cat.IsPublished, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// ListPublished returns the published categories for navigation,
// alphabetically.
func (r *Categories) ListPublished(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, slug, is_published, created_at
		 FROM categories WHERE is_published ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []*models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Title, &cat.Description, &cat.Slug, &cat.IsPublished, &cat.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, &cat)
	}
	return cats, rows.Err()
}
