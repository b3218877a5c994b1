package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chronicle/models"
	"chronicle/policy"
	"chronicle/repository"
)

type commentForm struct {
	Text string `form:"text" json:"text" binding:"required"`
}

func commentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil || id <= 0 {
		notFound(c)
		return 0, false
	}
	return id, true
}

// addComment requires authentication before the submission is accepted
// at all: an anonymous POST redirects to login and persists nothing.
func (app *App) addComment(c *gin.Context) {
	v := viewer(c)
	if !policy.CanCreate(v) {
		redirectToLogin(c)
		return
	}

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

	// Commenting is only open on posts the commenter can see.
	if !policy.Visible(post, v, app.nowTime()) {
		notFound(c)
		return
	}

	var f commentForm
	if err := c.ShouldBind(&f); err != nil {
		fieldErrors(c, gin.H{"text": "comment text is required"})
		return
	}

	comment := &models.Comment{PostID: post.ID, AuthorID: v.ID, Text: f.Text}
	if err := app.Comments.Create(c, comment); err != nil {
		app.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(post.ID))
}

// commentGuard looks the comment up within its post and authorizes the
// viewer against it. Denied non-owners land on the parent post's page.
func (app *App) commentGuard(c *gin.Context) (*models.Comment, bool) {
	pid, ok := postID(c)
	if !ok {
		return nil, false
	}
	cid, ok := commentID(c)
	if !ok {
		return nil, false
	}

	comment, err := app.Comments.Get(c, cid, pid)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			notFound(c)
			return nil, false
		}
		app.serverError(c, err)
		return nil, false
	}

	guard := policy.NewGuard(comment.OwnedBy, func() string { return postPath(comment.PostID) })
	switch guard.Authorize(viewer(c)) {
	case policy.LoginRequired:
		redirectToLogin(c)
		return nil, false
	case policy.NotOwner:
		c.Redirect(http.StatusFound, guard.DeniedTarget())
		return nil, false
	}
	return comment, true
}

func (app *App) editComment(c *gin.Context) {
	comment, ok := app.commentGuard(c)
	if !ok {
		return
	}

	var f commentForm
	if err := c.ShouldBind(&f); err != nil {
		fieldErrors(c, gin.H{"text": "comment text is required"})
		return
	}

	comment.Text = f.Text
	if err := app.Comments.Update(c, comment); err != nil {
		app.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(comment.PostID))
}

func (app *App) deleteComment(c *gin.Context) {
	comment, ok := app.commentGuard(c)
	if !ok {
		return
	}

	if err := app.Comments.Delete(c, comment.ID); err != nil {
		app.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(comment.PostID))
}
