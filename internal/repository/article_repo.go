package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/models"
)

const articleListSelect = `SELECT
		articles.author,
		articles.title,
		articles.article_id,
		articles.topic,
		articles.created_at,
		articles.votes,
		articles.article_img_url,
		CAST(COUNT(comments.comment_id) AS INT) AS comment_count
	FROM articles
	LEFT JOIN comments ON articles.article_id = comments.article_id`

const articleDetailSelect = `SELECT
		articles.author,
		articles.title,
		articles.article_id,
		articles.body,
		articles.topic,
		articles.created_at,
		articles.votes,
		articles.article_img_url,
		CAST(COUNT(comments.comment_id) AS INT) AS comment_count
	FROM articles
	LEFT JOIN comments ON articles.article_id = comments.article_id`

// The vote floor is applied by the store: votes never drop below zero.
const articleVoteUpdate = `WITH updated AS (
		UPDATE articles
		SET votes = CASE WHEN votes + $1 < 0 THEN 0 ELSE votes + $1 END
		WHERE article_id = $2
		RETURNING *
	)
	SELECT
		updated.author,
		updated.title,
		updated.article_id,
		updated.body,
		updated.topic,
		updated.created_at,
		updated.votes,
		updated.article_img_url,
		CAST(COUNT(comments.comment_id) AS INT) AS comment_count
	FROM updated
	LEFT JOIN comments ON updated.article_id = comments.article_id
	GROUP BY updated.article_id, updated.author, updated.title, updated.body,
		updated.topic, updated.created_at, updated.votes, updated.article_img_url`

var articleInsert = insertStatement{
	table:     "articles",
	columns:   []string{"author", "title", "body", "topic", "article_img_url"},
	returning: "article_id",
}

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// List returns articles with their comment counts, filtered and sorted by q
func (r *articleRepo) List(ctx context.Context, q ArticleQuery) ([]models.Article, error) {
	stmt := newSelect(articleListSelect)
	if q.Topic != "" {
		stmt.whereEq(colArticleTopic, q.Topic)
	}
	query, args := stmt.group(colArticleID).order(articleSortSQL[q.SortBy], q.Order).build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	articles := make([]models.Article, 0)
	for rows.Next() {
		var a models.Article
		var img sql.NullString
		err := rows.Scan(
			&a.Author, &a.Title, &a.ArticleID, &a.Topic,
			&a.CreatedAt, &a.Votes, &img, &a.CommentCount,
		)
		if err != nil {
			return nil, apperr.Store(err)
		}
		a.ArticleImgURL = img.String
		articles = append(articles, a)
	}
	return articles, apperr.Store(rows.Err())
}

// GetByID retrieves an article with its body and comment count.
// The id is bound as text so the store performs the integer coercion.
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query, args := newSelect(articleDetailSelect).
		whereEq(colArticleID, id).
		group(colArticleID).
		build()

	article, err := scanArticleDetail(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return article, nil
}

// Create inserts a new article and returns its generated id
func (r *articleRepo) Create(ctx context.Context, article *models.NewArticle) (int, error) {
	args := []any{article.Author, article.Title, article.Body, article.Topic, article.ArticleImgURL}
	query, err := articleInsert.build(args)
	if err != nil {
		return 0, err
	}

	var id int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, apperr.Store(err)
	}
	return id, nil
}

// UpdateVotes adds incVotes to the article's votes, clamped at zero.
// It returns nil when no article has the given id.
func (r *articleRepo) UpdateVotes(ctx context.Context, id string, incVotes string) (*models.Article, error) {
	article, err := scanArticleDetail(r.db.QueryRowContext(ctx, articleVoteUpdate, incVotes, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return article, nil
}

func scanArticleDetail(row rowScanner) (*models.Article, error) {
	var a models.Article
	var img sql.NullString
	err := row.Scan(
		&a.Author, &a.Title, &a.ArticleID, &a.Body, &a.Topic,
		&a.CreatedAt, &a.Votes, &img, &a.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	a.ArticleImgURL = img.String
	return &a, nil
}
