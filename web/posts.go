package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chronicle/listing"
	"chronicle/models"
	"chronicle/policy"
	"chronicle/repository"
)

const (
	searchPageSize      = 20
	searchPreviewLength = 160 // search results carry a text preview, not the full body
)

// postID parses the :post_id parameter; a malformed id is a 404, the
// same as a well-formed id that matches nothing.
func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id <= 0 {
		notFound(c)
		return 0, false
	}
	return id, true
}

func (app *App) index(c *gin.Context) {
	page, err := app.Composer.Feed(c, listing.PageNumber(c.Query("page")))
	if err != nil {
		app.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (app *App) categoryPosts(c *gin.Context) {
	cat, page, err := app.Composer.CategoryFeed(c, c.Param("slug"), listing.PageNumber(c.Query("page")))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			notFound(c)
			return
		}
		app.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat, "page": page})
}

func (app *App) postDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := app.Posts.Get(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			notFound(c)
			return
		}
		app.serverError(c, err)
		return
	}

	// A post hidden from this viewer does not exist as far as they can
	// tell; authors see their own regardless.
	if !policy.Visible(post, viewer(c), app.nowTime()) {
		notFound(c)
		return
	}

	comments, err := app.Composer.PostComments(c, post.ID, listing.PageNumber(c.Query("page")))
	if err != nil {
		app.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}

type postForm struct {
	Title       string    `form:"title" json:"title" binding:"required,max=256"`
	Text        string    `form:"text" json:"text" binding:"required"`
	PubDate     time.Time `form:"pub_date" json:"pub_date" time_format:"2006-01-02T15:04" binding:"required"`
	IsPublished *bool     `form:"is_published" json:"is_published"`
	Category    string    `form:"category" json:"category"` // slug
	LocationID  int64     `form:"location_id" json:"location_id"`
	Image       string    `form:"image" json:"image"`
}

// apply copies the form onto the post, resolving the category slug and
// location id. Reference failures are reported as field errors; an
// unpublished category is attachable, the post simply stays out of
// public listings until it flips.
func (app *App) apply(c *gin.Context, f postForm, post *models.Post) bool {
	post.Title = f.Title
	post.Text = f.Text
	post.PubDate = f.PubDate
	post.Image = f.Image
	post.IsPublished = f.IsPublished == nil || *f.IsPublished

	post.CategoryID = nil
	post.Category = nil
	if f.Category != "" {
		cat, err := app.Categories.GetBySlug(c, f.Category)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				fieldErrors(c, gin.H{"category": "unknown category"})
			} else {
				app.serverError(c, err)
			}
			return false
		}
		post.CategoryID = &cat.ID
		post.Category = cat
	}

	post.LocationID = nil
	post.Location = nil
	if f.LocationID > 0 {
		loc, err := app.Locations.Get(c, f.LocationID)
		if err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				fieldErrors(c, gin.H{"location_id": "unknown location"})
			} else {
				app.serverError(c, err)
			}
			return false
		}
		post.LocationID = &loc.ID
		post.Location = loc
	}
	return true
}

func (app *App) createPost(c *gin.Context) {
	v := viewer(c)
	if !policy.CanCreate(v) {
		redirectToLogin(c)
		return
	}

	var f postForm
	if err := c.ShouldBind(&f); err != nil {
		fieldErrors(c, gin.H{"form": err.Error()})
		return
	}

	// Authorship is stamped here, once, from the session. A
	// client-supplied author field never gets a say.
	post := &models.Post{AuthorID: v.ID, Author: v}
	if !app.apply(c, f, post) {
		return
	}

	if err := app.Posts.Create(c, post); err != nil {
		app.serverError(c, err)
		return
	}
	if err := app.Index.IndexPost(c, post); err != nil {
		log.Printf("index post %d: %v", post.ID, err)
	}

	c.Redirect(http.StatusFound, profilePath(v.Username))
}

func (app *App) editPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := app.Posts.Get(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			notFound(c)
			return
		}
		app.serverError(c, err)
		return
	}

	guard := policy.NewGuard(post.OwnedBy, func() string { return postPath(post.ID) })
	switch guard.Authorize(viewer(c)) {
	case policy.LoginRequired:
		redirectToLogin(c)
		return
	case policy.NotOwner:
		c.Redirect(http.StatusFound, guard.DeniedTarget())
		return
	}

	var f postForm
	if err := c.ShouldBind(&f); err != nil {
		fieldErrors(c, gin.H{"form": err.Error()})
		return
	}
	if !app.apply(c, f, post) {
		return
	}

	if err := app.Posts.Update(c, post); err != nil {
		app.serverError(c, err)
		return
	}
	if err := app.Index.IndexPost(c, post); err != nil {
		log.Printf("index post %d: %v", post.ID, err)
	}

	c.Redirect(http.StatusFound, postPath(post.ID))
}

func (app *App) deletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := app.Posts.Get(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			notFound(c)
			return
		}
		app.serverError(c, err)
		return
	}

	v := viewer(c)
	guard := policy.NewGuard(post.OwnedBy, func() string { return postPath(post.ID) })
	switch guard.Authorize(v) {
	case policy.LoginRequired:
		redirectToLogin(c)
		return
	case policy.NotOwner:
		c.Redirect(http.StatusFound, guard.DeniedTarget())
		return
	}

	// Comments go with the post via the store's cascade.
	if err := app.Posts.Delete(c, post.ID); err != nil {
		app.serverError(c, err)
		return
	}
	if err := app.Index.DeletePost(c, post.ID); err != nil {
		log.Printf("deindex post %d: %v", post.ID, err)
	}

	c.Redirect(http.StatusFound, profilePath(v.Username))
}

func (app *App) searchPosts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	now := app.nowTime()
	ids, err := app.Index.Search(c, q, now, searchPageSize)
	if err != nil {
		app.serverError(c, err)
		return
	}

	posts, err := app.Posts.ListByIDs(c, ids)
	if err != nil {
		app.serverError(c, err)
		return
	}

	// Re-rank to the index's score order and re-check liveness against
	// the store; an index document can lag a category flip.
	byID := make(map[int64]*models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	results := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && policy.Live(p, now) {
			p.Text = models.Truncate(p.Text, searchPreviewLength)
			results = append(results, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"query": q, "results": results})
}
