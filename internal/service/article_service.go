package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
	"github.com/nc-news-api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo    repository.ArticleRepository
	checker repository.ExistenceChecker
	log     zerolog.Logger
}

func newArticleService(repo repository.ArticleRepository, checker repository.ExistenceChecker, log zerolog.Logger) *articleService {
	return &articleService{
		repo:    repo,
		checker: checker,
		log:     log.With().Str("service", "article").Logger(),
	}
}

// ListArticles returns articles sorted and filtered by the listing parameters
func (s *articleService) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	q, err := validation.ArticleListing(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

// GetArticle returns one article with its comment count
func (s *articleService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	if err := validation.RequireID("Article", id); err != nil {
		return nil, err
	}

	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, articleNotFound(id)
	}
	return article, nil
}

// CreateArticle inserts an article once its author and topic are known to
// exist, then reads it back with its comment count.
func (s *articleService) CreateArticle(ctx context.Context, req *models.NewArticle) (*models.Article, error) {
	if err := validation.NewArticle(req); err != nil {
		return nil, err
	}

	err := s.checker.All(ctx,
		repository.Check{Kind: repository.KindUser, Key: req.Author},
		repository.Check{Kind: repository.KindTopic, Key: req.Topic},
	)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("article_id", id).
		Str("author", req.Author).
		Str("topic", req.Topic).
		Msg("Article created")

	// The insert and this read are separate statements; a concurrent delete
	// in between surfaces as a 404.
	return s.GetArticle(ctx, strconv.Itoa(id))
}

// VoteOnArticle applies a vote increment, never taking votes below zero
func (s *articleService) VoteOnArticle(ctx context.Context, id string, incVotes json.RawMessage) (*models.Article, error) {
	if err := validation.RequireID("Article", id); err != nil {
		return nil, err
	}
	inc, err := validation.IncVotes(incVotes)
	if err != nil {
		return nil, err
	}

	article, err := s.repo.UpdateVotes(ctx, id, inc)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, articleNotFound(id)
	}

	s.log.Debug().Int("article_id", article.ArticleID).Int("votes", article.Votes).Msg("Article votes updated")
	return article, nil
}

func articleNotFound(id string) error {
	return apperr.NotFound(`Article with ID "%s" is not found`, id)
}
