package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/models"
	"chronicle/policy"
)

// PostFilter scopes list and count queries. Zero values mean "no
// constraint"; VisibleOnly applies the live-post predicate evaluated at
// Now.
type PostFilter struct {
	VisibleOnly bool
	Now         time.Time
	CategoryID  int64
	AuthorID    int64
	Limit       int
	Offset      int
}

type Posts struct {
	db *pgxpool.Pool
}

func NewPosts(db *pgxpool.Pool) *Posts { return &Posts{db: db} }

// postColumns is shared by every post read so each of them hydrates the
// author, category and location relations and the comment count in one
// pass.
const postColumns = `
	p.id, p.title, p.text, p.pub_date, p.is_published, p.created_at,
	p.author_id, p.category_id, p.location_id, p.image,
	u.username, u.first_name, u.last_name,
	c.title, c.description, c.slug, c.is_published, c.created_at,
	l.name, l.is_published,
	COUNT(cm.id) AS comment_count`

const postJoins = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN locations l ON l.id = p.location_id
	LEFT JOIN comments cm ON cm.post_id = p.id`

const postGroupBy = ` GROUP BY p.id, u.id, c.id, l.id`

func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		p      models.Post
		author models.User

		catTitle, catDescription, catSlug *string
		catPublished                      *bool
		catCreated                        *time.Time
		locName                           *string
		locPublished                      *bool
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Text, &p.PubDate, &p.IsPublished, &p.CreatedAt,
		&p.AuthorID, &p.CategoryID, &p.LocationID, &p.Image,
		&author.Username, &author.FirstName, &author.LastName,
		&catTitle, &catDescription, &catSlug, &catPublished, &catCreated,
		&locName, &locPublished,
		&p.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	author.ID = p.AuthorID
	p.Author = &author

	if p.CategoryID != nil {
		p.Category = &models.Category{
			ID:          *p.CategoryID,
			Title:       *catTitle,
			Description: *catDescription,
			Slug:        *catSlug,
			IsPublished: *catPublished,
			CreatedAt:   *catCreated,
		}
	}
	if p.LocationID != nil {
		p.Location = &models.Location{
			ID:          *p.LocationID,
			Name:        *locName,
			IsPublished: *locPublished,
		}
	}
	return &p, nil
}

// filterWhere renders f as a WHERE clause; args start at $1.
func filterWhere(f PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.VisibleOnly {
		args = append(args, f.Now)
		conds = append(conds, policy.LiveWhere(len(args)))
	}
	if f.CategoryID > 0 {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.AuthorID > 0 {
		args = append(args, f.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns a page of posts matching f, newest publication first.
func (r *Posts) List(ctx context.Context, f PostFilter) ([]*models.Post, error) {
	where, args := filterWhere(f)
	args = append(args, f.Limit, f.Offset)
	query := "SELECT" + postColumns + postJoins + where + postGroupBy +
		fmt.Sprintf(" ORDER BY p.pub_date DESC, p.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Count returns how many posts match f, ignoring Limit and Offset.
func (r *Posts) Count(ctx context.Context, f PostFilter) (int, error) {
	where, args := filterWhere(f)
	query := `SELECT COUNT(*) FROM posts p LEFT JOIN categories c ON c.id = p.category_id` + where

	var n int
	err := r.db.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// Get returns one post by id with relations and comment count loaded.
func (r *Posts) Get(ctx context.Context, id int64) (*models.Post, error) {
	query := "SELECT" + postColumns + postJoins + " WHERE p.id = $1" + postGroupBy

	p, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByIDs loads the given posts in one query, relations and comment
// counts included. Order is unspecified; callers reorder as needed.
func (r *Posts) ListByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT" + postColumns + postJoins + " WHERE p.id = ANY($1)" + postGroupBy

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Create inserts the post and fills in its id and creation timestamp.
// AuthorID must already be stamped by the caller.
func (r *Posts) Create(ctx context.Context, p *models.Post) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO posts (title, text, pub_date, is_published, author_id, category_id, location_id, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		p.Title, p.Text, p.PubDate, p.IsPublished, p.AuthorID, p.CategoryID, p.LocationID, p.Image,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update rewrites the post's mutable fields. The author reference never
// changes after creation.
func (r *Posts) Update(ctx context.Context, p *models.Post) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE posts
		 SET title = $1, text = $2, pub_date = $3, is_published = $4,
		     category_id = $5, location_id = $6, image = $7
		 WHERE id = $8`,
		p.Title, p.Text, p.PubDate, p.IsPublished, p.CategoryID, p.LocationID, p.Image, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes the post; its comments go with it via the cascade.
func (r *Posts) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}
