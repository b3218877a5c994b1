package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chronicle/listing"
	"chronicle/repository"
)

func (app *App) profile(c *gin.Context) {
	owner, err := app.Users.GetByUsername(c, c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			notFound(c)
			return
		}
		app.serverError(c, err)
		return
	}

	page, err := app.Composer.ProfileFeed(c, owner, viewer(c), listing.PageNumber(c.Query("page")))
	if err != nil {
		app.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"username":   owner.Username,
			"first_name": owner.FirstName,
			"last_name":  owner.LastName,
		},
		"page": page,
	})
}

type profileForm struct {
	Username  string `form:"username" json:"username" binding:"required,max=256"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
}

func (app *App) editProfile(c *gin.Context) {
	v := viewer(c)
	if v == nil {
		redirectToLogin(c)
		return
	}

	var f profileForm
	if err := c.ShouldBind(&f); err != nil {
		fieldErrors(c, gin.H{"form": err.Error()})
		return
	}

	updated := *v
	updated.Username = f.Username
	updated.Email = f.Email
	updated.FirstName = f.FirstName
	updated.LastName = f.LastName

	if err := app.Users.UpdateProfile(c, &updated); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			fieldErrors(c, gin.H{"username": "this username is already taken"})
			return
		}
		if errors.Is(err, repository.ErrEmailTaken) {
			fieldErrors(c, gin.H{"email": "this email is already taken"})
			return
		}
		app.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, profilePath(updated.Username))
}
