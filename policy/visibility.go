// Package policy holds the visibility and authorization rules of the blog:
// which posts a viewer may see, and who may mutate which record.
package policy

import (
	"fmt"
	"time"

	"chronicle/models"
)

// Visible reports whether viewer may see the post. A nil viewer is
// anonymous.
//
// A post is live — visible to everyone — when it is published, its
// publication date is not in the future, and its category (if any) is
// itself published. Authors additionally see their own posts no matter
// what. Expects p.Category to be preloaded whenever p.CategoryID is set;
// every repository read does that.
func Visible(p *models.Post, viewer *models.User, now time.Time) bool {
	if p.OwnedBy(viewer) {
		return true
	}
	return Live(p, now)
}

// Live is the public part of the visibility rule, without the
// author exception.
func Live(p *models.Post, now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	return p.Category == nil || p.Category.IsPublished
}

// LiveWhere is the declarative form of Live, as a SQL fragment over the
// repository's standard aliases: p for posts and c for the LEFT JOINed
// categories row. The single positional argument (at index arg) is the
// "now" timestamp. List queries filter with this so the store never has
// to load hidden rows; the fragment and Live must agree for every input.
func LiveWhere(arg int) string {
	return fmt.Sprintf(
		"(p.is_published AND p.pub_date <= $%d AND (p.category_id IS NULL OR c.is_published))",
		arg,
	)
}
