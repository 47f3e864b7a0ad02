package repository

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nc-news-api/internal/apperr"
)

// column is a SQL identifier owned by this package. Only values of this type
// are ever interpolated into statement text; everything else is a placeholder.
type column string

const (
	colArticleID     column = "articles.article_id"
	colArticleAuthor column = "articles.author"
	colArticleTitle  column = "articles.title"
	colArticleTopic  column = "articles.topic"
	colArticleDate   column = "articles.created_at"
	colArticleVotes  column = "articles.votes"
	colArticleImg    column = "articles.article_img_url"
	colCommentCount  column = "comment_count"

	colCommentID      column = "comments.comment_id"
	colCommentArticle column = "comments.article_id"
	colCommentAuthor  column = "comments.author"
	colCommentDate    column = "comments.created_at"
	colCommentVotes   column = "comments.votes"

	colUsername column = "users.username"
	colSlug     column = "topics.slug"
)

// SortDirection is the ORDER BY direction
type SortDirection int

const (
	Desc SortDirection = iota
	Asc
)

// ParseSortDirection accepts asc or desc in any letter case
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(s) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}
	return Desc, false
}

func (d SortDirection) sql() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

// ArticleSortColumn selects the ORDER BY column of the article listing
type ArticleSortColumn int

const (
	ArticleSortCreatedAt ArticleSortColumn = iota
	ArticleSortAuthor
	ArticleSortTitle
	ArticleSortArticleID
	ArticleSortTopic
	ArticleSortVotes
	ArticleSortImgURL
	ArticleSortCommentCount
)

var articleSortColumns = map[string]ArticleSortColumn{
	"author":          ArticleSortAuthor,
	"title":           ArticleSortTitle,
	"article_id":      ArticleSortArticleID,
	"topic":           ArticleSortTopic,
	"created_at":      ArticleSortCreatedAt,
	"votes":           ArticleSortVotes,
	"article_img_url": ArticleSortImgURL,
	"comment_count":   ArticleSortCommentCount,
}

var articleSortSQL = map[ArticleSortColumn]column{
	ArticleSortAuthor:       colArticleAuthor,
	ArticleSortTitle:        colArticleTitle,
	ArticleSortArticleID:    colArticleID,
	ArticleSortTopic:        colArticleTopic,
	ArticleSortCreatedAt:    colArticleDate,
	ArticleSortVotes:        colArticleVotes,
	ArticleSortImgURL:       colArticleImg,
	ArticleSortCommentCount: colCommentCount,
}

// ParseArticleSortColumn matches s exactly against the sortable article columns
func ParseArticleSortColumn(s string) (ArticleSortColumn, bool) {
	c, ok := articleSortColumns[s]
	return c, ok
}

// CommentSortColumn selects the ORDER BY column of the comment listing
type CommentSortColumn int

const (
	CommentSortCreatedAt CommentSortColumn = iota
	CommentSortVotes
	CommentSortAuthor
	CommentSortCommentID
)

var commentSortColumns = map[string]CommentSortColumn{
	"created_at": CommentSortCreatedAt,
	"votes":      CommentSortVotes,
	"author":     CommentSortAuthor,
	"comment_id": CommentSortCommentID,
}

var commentSortSQL = map[CommentSortColumn]column{
	CommentSortCreatedAt: colCommentDate,
	CommentSortVotes:     colCommentVotes,
	CommentSortAuthor:    colCommentAuthor,
	CommentSortCommentID: colCommentID,
}

// ParseCommentSortColumn matches s exactly against the sortable comment columns
func ParseCommentSortColumn(s string) (CommentSortColumn, bool) {
	c, ok := commentSortColumns[s]
	return c, ok
}

// ArticleQuery is a validated article listing request
type ArticleQuery struct {
	SortBy ArticleSortColumn
	Order  SortDirection
	Topic  string // empty means all topics
}

// CommentQuery is a validated comment listing request
type CommentQuery struct {
	SortBy CommentSortColumn
	Order  SortDirection
}

// selectStatement accumulates a SELECT with placeholder-bound predicates
type selectStatement struct {
	base    string
	where   []string
	args    []any
	groupBy column
	orderBy string
}

func newSelect(base string) *selectStatement {
	return &selectStatement{base: base}
}

func (s *selectStatement) whereEq(col column, value any) *selectStatement {
	s.args = append(s.args, value)
	s.where = append(s.where, fmt.Sprintf("%s = $%d", col, len(s.args)))
	return s
}

func (s *selectStatement) group(col column) *selectStatement {
	s.groupBy = col
	return s
}

func (s *selectStatement) order(col column, dir SortDirection) *selectStatement {
	s.orderBy = fmt.Sprintf("%s %s", col, dir.sql())
	return s
}

func (s *selectStatement) build() (string, []any) {
	var b strings.Builder
	b.WriteString(s.base)
	if len(s.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(s.where, " AND "))
	}
	if s.groupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(string(s.groupBy))
	}
	if s.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(s.orderBy)
	}
	return b.String(), s.args
}

// insertStatement is an INSERT with a fixed column list
type insertStatement struct {
	table     string
	columns   []string
	returning string
}

// build renders the statement for args, which must line up one-to-one with
// the column list.
func (s insertStatement) build(args []any) (string, error) {
	if len(args) != len(s.columns) {
		return "", apperr.Internal(http.StatusUnprocessableEntity, "Invalid number of insert arguments",
			fmt.Errorf("insert into %s: %d columns, %d values", s.table, len(s.columns), len(args)))
	}
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(s.columns, ", "), strings.Join(placeholders, ", "))
	if s.returning != "" {
		query += " RETURNING " + s.returning
	}
	return query, nil
}
