package models

import (
	"time"
)

// Comment represents a comment on an article
type Comment struct {
	CommentID int       `json:"comment_id" db:"comment_id"`
	Body      string    `json:"body" db:"body"`
	Author    string    `json:"author" db:"author"`
	ArticleID int       `json:"article_id" db:"article_id"`
	Votes     int       `json:"votes" db:"votes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewComment is the request body of POST /api/articles/:article_id/comments
type NewComment struct {
	Username string `json:"username"`
	Body     string `json:"body"`
}

// CommentFilter holds the listing query for GET /api/articles/:article_id/comments
type CommentFilter struct {
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
}
