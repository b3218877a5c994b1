package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chronicle/auth"
	"chronicle/models"
	"chronicle/repository"
)

type signUpForm struct {
	Username string `form:"username" json:"username" binding:"required,max=256"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=8"`
}

func (app *App) signUp(c *gin.Context) {
	var f signUpForm
	if err := c.ShouldBind(&f); err != nil {
		fieldErrors(c, gin.H{"form": err.Error()})
		return
	}

	hash, err := auth.HashPassword(f.Password)
	if err != nil {
		app.serverError(c, err)
		return
	}

	u := &models.User{Username: f.Username, Email: f.Email, Password: hash}
	if err := app.Users.Create(c, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			fieldErrors(c, gin.H{"username": "this username is already taken"})
		case errors.Is(err, repository.ErrEmailTaken):
			fieldErrors(c, gin.H{"email": "this email is already registered"})
		default:
			app.serverError(c, err)
		}
		return
	}

	c.Redirect(http.StatusFound, "/auth/login")
}

type logInForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

func (app *App) logIn(c *gin.Context) {
	var f logInForm
	if err := c.ShouldBind(&f); err != nil {
		fieldErrors(c, gin.H{"form": err.Error()})
		return
	}

	u, err := app.Users.GetByUsername(c, f.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fieldErrors(c, gin.H{"credentials": "invalid username or password"})
			return
		}
		app.serverError(c, err)
		return
	}
	if err := auth.ComparePassword(u.Password, f.Password); err != nil {
		fieldErrors(c, gin.H{"credentials": "invalid username or password"})
		return
	}

	token, err := app.Sessions.Create(c, u.ID)
	if err != nil {
		app.serverError(c, err)
		return
	}
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)

	// Return to the page that sent the viewer here. Only local paths
	// qualify.
	next := f.Next
	if next == "" {
		next = c.Query("next")
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

func (app *App) logOut(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		_ = app.Sessions.Destroy(c, token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
