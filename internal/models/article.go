package models

import (
	"encoding/json"
	"time"
)

// DefaultArticleImgURL is stored when a new article does not supply an image
const DefaultArticleImgURL = "https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700"

// Article represents an article together with its live comment count
type Article struct {
	ArticleID     int       `json:"article_id" db:"article_id"`
	Author        string    `json:"author" db:"author"`
	Title         string    `json:"title" db:"title"`
	Body          string    `json:"body,omitempty" db:"body"` // omitted from listings
	Topic         string    `json:"topic" db:"topic"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	Votes         int       `json:"votes" db:"votes"`
	ArticleImgURL string    `json:"article_img_url" db:"article_img_url"`
	CommentCount  int       `json:"comment_count" db:"comment_count"` // computed, never stored
}

// NewArticle is the request body of POST /api/articles
type NewArticle struct {
	Author        string `json:"author"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	Topic         string `json:"topic"`
	ArticleImgURL string `json:"article_img_url,omitempty"`
}

// ArticleFilter holds the listing query for GET /api/articles
type ArticleFilter struct {
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
	Topic  string `form:"topic"`
}

// VoteUpdate is the request body of PATCH on articles and comments.
// IncVotes is kept raw so the store decides what counts as an integer.
type VoteUpdate struct {
	IncVotes json.RawMessage `json:"inc_votes"`
}
