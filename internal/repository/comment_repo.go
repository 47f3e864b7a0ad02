package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/models"
)

const commentSelect = `SELECT
		comments.comment_id,
		comments.body,
		comments.author,
		comments.article_id,
		comments.votes,
		comments.created_at
	FROM comments`

const commentReturning = "comment_id, body, author, article_id, votes, created_at"

const commentVoteUpdate = `UPDATE comments
	SET votes = CASE WHEN votes + $1 < 0 THEN 0 ELSE votes + $1 END
	WHERE comment_id = $2
	RETURNING ` + commentReturning

var commentInsert = insertStatement{
	table:     "comments",
	columns:   []string{"body", "author", "article_id"},
	returning: commentReturning,
}

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// ListByArticle returns the comments of one article. An article without
// comments yields an empty slice; existence of the article is not checked here.
func (r *commentRepo) ListByArticle(ctx context.Context, articleID string, q CommentQuery) ([]models.Comment, error) {
	query, args := newSelect(commentSelect).
		whereEq(colCommentArticle, articleID).
		order(commentSortSQL[q.SortBy], q.Order).
		build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, apperr.Store(err)
		}
		comments = append(comments, *c)
	}
	return comments, apperr.Store(rows.Err())
}

// GetByID retrieves a comment by id
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query, args := newSelect(commentSelect).whereEq(colCommentID, id).build()

	c, err := scanComment(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return c, nil
}

// Create inserts a comment on articleID and returns the stored row
func (r *commentRepo) Create(ctx context.Context, articleID string, comment *models.NewComment) (*models.Comment, error) {
	args := []any{comment.Body, comment.Username, articleID}
	query, err := commentInsert.build(args)
	if err != nil {
		return nil, err
	}

	c, err := scanComment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, apperr.Store(err)
	}
	return c, nil
}

// UpdateVotes adds incVotes to the comment's votes, clamped at zero.
// It returns nil when no comment has the given id.
func (r *commentRepo) UpdateVotes(ctx context.Context, id string, incVotes string) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentVoteUpdate, incVotes, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return c, nil
}

// Delete removes a comment and reports whether a row was deleted
func (r *commentRepo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted int
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM comments WHERE comment_id = $1 RETURNING comment_id`, id,
	).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Store(err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.CommentID, &c.Body, &c.Author, &c.ArticleID, &c.Votes, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
