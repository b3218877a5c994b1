package models

import "time"

const (
	// TitleMaxLength caps titles, category slugs and location names.
	TitleMaxLength = 256

	// PostsPerPage and CommentsPerPage are the fixed page sizes used by
	// every listing in the application.
	PostsPerPage    = 5
	CommentsPerPage = 5
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  string    `json:"-"` // PHC-encoded argon2id hash
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type Location struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	PubDate     time.Time  `json:"pub_date"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   time.Time  `json:"created_at"`
	AuthorID    int64      `json:"author_id"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	LocationID  *int64     `json:"location_id,omitempty"`
	Image       string     `json:"image,omitempty"`

	// Preloaded relations; list and detail queries fill these.
	Author   *User     `json:"author,omitempty"`
	Category *Category `json:"category,omitempty"`
	Location *Location `json:"location,omitempty"`

	// CommentCount is annotated by the store in the same pass as the
	// page query itself.
	CommentCount int `json:"comment_count"`
}

// OwnedBy reports whether u authored the post. A nil u is anonymous.
func (p *Post) OwnedBy(u *User) bool {
	return u != nil && u.ID == p.AuthorID
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `json:"author,omitempty"`
}

// OwnedBy reports whether u authored the comment. A nil u is anonymous.
func (c *Comment) OwnedBy(u *User) bool {
	return u != nil && u.ID == c.AuthorID
}

// Truncate shortens text to at most length characters for compact
// display. It counts runes, not bytes, so multibyte text never gets cut
// mid-character.
func Truncate(text string, length int) string {
	runes := []rune(text)
	if len(runes) > length {
		return string(runes[:length]) + "..."
	}
	return text
}
