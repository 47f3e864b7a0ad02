// Package validation turns raw request input into checked query values.
// Every rejection is an apperr validation error (400) raised before any
// statement reaches the store.
package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
)

// RequireID rejects an empty path key, e.g. RequireID("Article", "")
func RequireID(entity, id string) error {
	if id == "" {
		return apperr.Validation("%s ID is required", entity)
	}
	return nil
}

// RequireUsername rejects an empty username
func RequireUsername(username string) error {
	if username == "" {
		return apperr.Validation("Username is required")
	}
	return nil
}

// ArticleListing validates the sort, order and topic parameters of the
// article listing. Empty parameters take the defaults.
func ArticleListing(f models.ArticleFilter) (repository.ArticleQuery, error) {
	q := repository.ArticleQuery{
		SortBy: repository.ArticleSortCreatedAt,
		Order:  repository.Desc,
		Topic:  f.Topic,
	}

	if f.SortBy != "" {
		col, ok := repository.ParseArticleSortColumn(f.SortBy)
		if !ok {
			return q, invalidSortBy(f.SortBy)
		}
		q.SortBy = col
	}

	order, err := parseOrder(f.Order)
	if err != nil {
		return q, err
	}
	q.Order = order
	return q, nil
}

// CommentListing validates the sort and order parameters of a comment listing
func CommentListing(f models.CommentFilter) (repository.CommentQuery, error) {
	q := repository.CommentQuery{
		SortBy: repository.CommentSortCreatedAt,
		Order:  repository.Desc,
	}

	if f.SortBy != "" {
		col, ok := repository.ParseCommentSortColumn(f.SortBy)
		if !ok {
			return q, invalidSortBy(f.SortBy)
		}
		q.SortBy = col
	}

	order, err := parseOrder(f.Order)
	if err != nil {
		return q, err
	}
	q.Order = order
	return q, nil
}

// IncVotes checks that a vote increment was supplied and is not the number
// zero. Integral JSON numbers are returned in plain decimal form; anything
// else is returned as text for the store to coerce, so a non-integer value
// is rejected there rather than here.
func IncVotes(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", apperr.Validation("Number of increment votes is required")
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", apperr.Validation("Bad request")
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			break
		}
		if f == 0 {
			return "", apperr.Validation("Number of increment votes must be a non-zero number")
		}
		// 1e2 and 5.0 are integers to a JSON client; write them out in full.
		if f == math.Trunc(f) {
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
	}
	return string(raw), nil
}

// NewComment checks the body of a new comment
func NewComment(c *models.NewComment) error {
	if strings.TrimSpace(c.Body) == "" {
		return apperr.Validation("Body is required")
	}
	if strings.TrimSpace(c.Username) == "" {
		return apperr.Validation("Username is required")
	}
	return nil
}

// NewArticle checks the body of a new article and fills in the default image
func NewArticle(a *models.NewArticle) error {
	switch {
	case a.Author == "":
		return apperr.Validation("Author is required")
	case strings.TrimSpace(a.Title) == "":
		return apperr.Validation("Title is required")
	case strings.TrimSpace(a.Body) == "":
		return apperr.Validation("Body is required")
	case a.Topic == "":
		return apperr.Validation("Topic is required")
	}

	if strings.TrimSpace(a.ArticleImgURL) == "" {
		a.ArticleImgURL = models.DefaultArticleImgURL
	}
	return nil
}

func parseOrder(s string) (repository.SortDirection, error) {
	if s == "" {
		return repository.Desc, nil
	}
	dir, ok := repository.ParseSortDirection(s)
	if !ok {
		return dir, apperr.Validation("Invalid order: %s. Must be 'asc' or 'desc'", s)
	}
	return dir, nil
}

func invalidSortBy(s string) error {
	return apperr.Validation("Invalid sort_by column: %s", s)
}
