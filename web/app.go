// Package web is the HTTP handler layer: thin gin handlers that resolve
// the viewer, look the resource up, consult the policy, and translate
// the outcome into a JSON page or a redirect.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"chronicle/listing"
	"chronicle/models"
)

type PostStore interface {
	Get(ctx context.Context, id int64) (*models.Post, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Post, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id int64) error
}

type CommentStore interface {
	Get(ctx context.Context, id, postID int64) (*models.Comment, error)
	Create(ctx context.Context, cm *models.Comment) error
	Update(ctx context.Context, cm *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, u *models.User) error
}

type CategoryStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListPublished(ctx context.Context) ([]*models.Category, error)
}

type LocationStore interface {
	Get(ctx context.Context, id int64) (*models.Location, error)
	List(ctx context.Context) ([]*models.Location, error)
}

type Sessions interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	Destroy(ctx context.Context, token string) error
}

type SearchIndex interface {
	IndexPost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, now time.Time, size int) ([]int64, error)
}

// App bundles the handlers' collaborators. Now is overridable in tests;
// nil means time.Now.
type App struct {
	Posts      PostStore
	Comments   CommentStore
	Users      UserStore
	Categories CategoryStore
	Locations  LocationStore
	Sessions   Sessions
	Index      SearchIndex
	Composer   *listing.Composer
	Now        func() time.Time
}

// Register mounts every route on r.
func (app *App) Register(r *gin.Engine) {
	r.Use(app.currentUser)

	r.GET("/", app.index)
	r.GET("/categories", app.listCategories)
	r.GET("/category/:slug", app.categoryPosts)
	r.GET("/locations", app.listLocations)

	r.GET("/posts/search", app.searchPosts)
	r.GET("/posts/:post_id", app.postDetail)
	r.POST("/posts", app.createPost)
	r.POST("/posts/:post_id/edit", app.editPost)
	r.POST("/posts/:post_id/delete", app.deletePost)

	r.POST("/posts/:post_id/comments", app.addComment)
	r.POST("/posts/:post_id/comments/:comment_id/edit", app.editComment)
	r.POST("/posts/:post_id/comments/:comment_id/delete", app.deleteComment)

	r.GET("/profile/:username", app.profile)
	r.POST("/profile/edit", app.editProfile)

	r.POST("/auth/signup", app.signUp)
	r.POST("/auth/login", app.logIn)
	r.POST("/auth/logout", app.logOut)
}

func (app *App) nowTime() time.Time {
	if app.Now != nil {
		return app.Now()
	}
	return time.Now()
}

func postPath(id int64) string           { return fmt.Sprintf("/posts/%d", id) }
func profilePath(username string) string { return "/profile/" + username }

// notFound is the single NotFound shape: missing records and records
// hidden by the visibility policy are indistinguishable on the wire.
func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// redirectToLogin sends an anonymous viewer to the login page with the
// requested path preserved for the post-login return.
func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/auth/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}

func (app *App) serverError(c *gin.Context, err error) {
	log.Printf("internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// fieldErrors reports a validation failure back to the submitter without
// persisting anything.
func fieldErrors(c *gin.Context, errs gin.H) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
}
