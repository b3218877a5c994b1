// Package listing composes the store, the visibility policy and the
// paginator into the page-shaped collections the handlers render.
package listing

import (
	"context"
	"time"

	"chronicle/models"
	"chronicle/repository"
)

type PostStore interface {
	List(ctx context.Context, f repository.PostFilter) ([]*models.Post, error)
	Count(ctx context.Context, f repository.PostFilter) (int, error)
}

type CommentStore interface {
	ListForPost(ctx context.Context, postID int64, limit, offset int) ([]*models.Comment, error)
	CountForPost(ctx context.Context, postID int64) (int, error)
}

type CategoryStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// Composer builds the paginated, annotated collections served by list
// pages.
type Composer struct {
	posts      PostStore
	comments   CommentStore
	categories CategoryStore
	now        func() time.Time
}

func NewComposer(posts PostStore, comments CommentStore, categories CategoryStore, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{posts: posts, comments: comments, categories: categories, now: now}
}

func (c *Composer) postPage(ctx context.Context, f repository.PostFilter, page int) (Page[*models.Post], error) {
	total, err := c.posts.Count(ctx, f)
	if err != nil {
		return Page[*models.Post]{}, err
	}

	number, offset := clampPage(total, models.PostsPerPage, page)
	f.Limit = models.PostsPerPage
	f.Offset = offset

	items, err := c.posts.List(ctx, f)
	if err != nil {
		return Page[*models.Post]{}, err
	}
	return Page[*models.Post]{
		Items:      items,
		Number:     number,
		TotalPages: totalPages(total, models.PostsPerPage),
		TotalItems: total,
	}, nil
}

// Feed is the public front page: live posts only, newest first.
func (c *Composer) Feed(ctx context.Context, page int) (Page[*models.Post], error) {
	return c.postPage(ctx, repository.PostFilter{VisibleOnly: true, Now: c.now()}, page)
}

// CategoryFeed is the public feed scoped to one category, addressed by
// slug. A missing and an unpublished category are indistinguishable to
// the caller: both are a category not-found.
func (c *Composer) CategoryFeed(ctx context.Context, slug string, page int) (*models.Category, Page[*models.Post], error) {
	cat, err := c.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, Page[*models.Post]{}, err
	}
	if !cat.IsPublished {
		return nil, Page[*models.Post]{}, repository.ErrCategoryNotFound
	}

	p, err := c.postPage(ctx, repository.PostFilter{
		VisibleOnly: true,
		Now:         c.now(),
		CategoryID:  cat.ID,
	}, page)
	return cat, p, err
}

// ProfileFeed lists the owner's posts. Owners browsing their own profile
// see everything they wrote, scheduled and unpublished included; anyone
// else gets the visibility filter.
func (c *Composer) ProfileFeed(ctx context.Context, owner, viewer *models.User, page int) (Page[*models.Post], error) {
	f := repository.PostFilter{AuthorID: owner.ID}
	if viewer == nil || viewer.ID != owner.ID {
		f.VisibleOnly = true
		f.Now = c.now()
	}
	return c.postPage(ctx, f, page)
}

// PostComments is the post's comment thread, oldest first.
func (c *Composer) PostComments(ctx context.Context, postID int64, page int) (Page[*models.Comment], error) {
	total, err := c.comments.CountForPost(ctx, postID)
	if err != nil {
		return Page[*models.Comment]{}, err
	}

	number, offset := clampPage(total, models.CommentsPerPage, page)
	items, err := c.comments.ListForPost(ctx, postID, models.CommentsPerPage, offset)
	if err != nil {
		return Page[*models.Comment]{}, err
	}
	return Page[*models.Comment]{
		Items:      items,
		Number:     number,
		TotalPages: totalPages(total, models.CommentsPerPage),
		TotalItems: total,
	}, nil
}
