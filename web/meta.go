package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listCategories feeds the category navigation: published categories
// only, so hidden ones never show up in menus.
func (app *App) listCategories(c *gin.Context) {
	cats, err := app.Categories.ListPublished(c)
	if err != nil {
		app.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// listLocations feeds the location picker on the post form.
func (app *App) listLocations(c *gin.Context) {
	locs, err := app.Locations.List(c)
	if err != nil {
		app.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs})
}
