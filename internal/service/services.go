package service

import (
	"context"
	"encoding/json"

	"github.com/nc-news-api/internal/config"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
	"github.com/rs/zerolog"
)

// TopicService defines the interface for topic operations
type TopicService interface {
	ListTopics(ctx context.Context) ([]models.Topic, error)
}

// UserService defines the interface for user operations
type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
}

// ArticleService defines the interface for article operations
type ArticleService interface {
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	CreateArticle(ctx context.Context, req *models.NewArticle) (*models.Article, error)
	VoteOnArticle(ctx context.Context, id string, incVotes json.RawMessage) (*models.Article, error)
}

// CommentService defines the interface for comment operations
type CommentService interface {
	ListComments(ctx context.Context, articleID string, filter models.CommentFilter) ([]models.Comment, error)
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	AddComment(ctx context.Context, articleID string, req *models.NewComment) (*models.Comment, error)
	VoteOnComment(ctx context.Context, id string, incVotes json.RawMessage) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// APIService serves the endpoint documentation
type APIService interface {
	Endpoints(ctx context.Context) (json.RawMessage, error)
}

// Services holds all service interfaces
type Services struct {
	Topic   TopicService
	User    UserService
	Article ArticleService
	Comment CommentService
	API     APIService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Topic:   newTopicService(repos.Topic, log),
		User:    newUserService(repos.User, log),
		Article: newArticleService(repos.Article, repos.Checker, log),
		Comment: newCommentService(repos.Comment, repos.Checker, log),
		API:     newAPIService(cfg.API.EndpointsPath, log),
	}
}
