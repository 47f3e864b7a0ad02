package repository

import (
	"context"

	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/models"
)

// Lookups return (nil, nil) when no row matches; the caller decides whether
// that is a 404.

// TopicRepository defines the interface for topic data operations
type TopicRepository interface {
	List(ctx context.Context) ([]models.Topic, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	List(ctx context.Context, q ArticleQuery) ([]models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	Create(ctx context.Context, article *models.NewArticle) (int, error)
	UpdateVotes(ctx context.Context, id string, incVotes string) (*models.Article, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	ListByArticle(ctx context.Context, articleID string, q CommentQuery) ([]models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Create(ctx context.Context, articleID string, comment *models.NewComment) (*models.Comment, error)
	UpdateVotes(ctx context.Context, id string, incVotes string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Topic   TopicRepository
	User    UserRepository
	Article ArticleRepository
	Comment CommentRepository
	Checker ExistenceChecker
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Topic:   NewTopicRepo(db),
		User:    NewUserRepo(db),
		Article: NewArticleRepo(db),
		Comment: NewCommentRepo(db),
		Checker: NewChecker(db),
	}
}
