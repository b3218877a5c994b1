package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/models"
)

type Comments struct {
	db *pgxpool.Pool
}

func NewComments(db *pgxpool.Pool) *Comments { return &Comments{db: db} }

// Get returns one comment scoped to its post, author preloaded. A
// comment id paired with the wrong post id is a plain not-found.
func (r *Comments) Get(ctx context.Context, id, postID int64) (*models.Comment, error) {
	var (
		cm     models.Comment
		author models.User
	)
	err := r.db.QueryRow(ctx,
		`SELECT cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at, u.username
		 FROM comments cm
		 JOIN users u ON u.id = cm.author_id
		 WHERE cm.id = $1 AND cm.post_id = $2`,
		id, postID,
	).Scan(&cm.ID, &cm.PostID, &cm.AuthorID, &cm.Text, &cm.CreatedAt, &author.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	author.ID = cm.AuthorID
	cm.Author = &author
	return &cm, nil
}

// ListForPost returns a page of the post's comments, oldest first,
// authors preloaded.
func (r *Comments) ListForPost(ctx context.Context, postID int64, limit, offset int) ([]*models.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at, u.username
		 FROM comments cm
		 JOIN users u ON u.id = cm.author_id
		 WHERE cm.post_id = $1
		 ORDER BY cm.created_at ASC
		 LIMIT $2 OFFSET $3`,
		postID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var (
			cm     models.Comment
			author models.User
		)
		if err := rows.Scan(&cm.ID, &cm.PostID, &cm.AuthorID, &cm.Text, &cm.CreatedAt, &author.Username); err != nil {
			return nil, err
		}
		author.ID = cm.AuthorID
		cm.Author = &author
		comments = append(comments, &cm)
	}
	return comments, rows.Err()
}

// CountForPost returns the number of comments on the post.
func (r *Comments) CountForPost(ctx context.Context, postID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}

// Create inserts the comment and fills in its id and creation timestamp.
// AuthorID must already be stamped by the caller.
func (r *Comments) Create(ctx context.Context, cm *models.Comment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO comments (post_id, author_id, text) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		cm.PostID, cm.AuthorID, cm.Text,
	).Scan(&cm.ID, &cm.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// Update rewrites the comment text.
func (r *Comments) Update(ctx context.Context, cm *models.Comment) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE comments SET text = $1 WHERE id = $2`, cm.Text, cm.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Delete removes the comment.
func (r *Comments) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}
