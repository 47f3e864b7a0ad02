package service

import (
	"context"
	"encoding/json"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
	"github.com/nc-news-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repo    repository.CommentRepository
	checker repository.ExistenceChecker
	log     zerolog.Logger
}

func newCommentService(repo repository.CommentRepository, checker repository.ExistenceChecker, log zerolog.Logger) *commentService {
	return &commentService{
		repo:    repo,
		checker: checker,
		log:     log.With().Str("service", "comment").Logger(),
	}
}

// ListComments returns the comments of an existing article
func (s *commentService) ListComments(ctx context.Context, articleID string, filter models.CommentFilter) ([]models.Comment, error) {
	if err := validation.RequireID("Article", articleID); err != nil {
		return nil, err
	}
	q, err := validation.CommentListing(filter)
	if err != nil {
		return nil, err
	}

	if err := s.checker.Exists(ctx, repository.KindArticle, articleID); err != nil {
		return nil, err
	}
	return s.repo.ListByArticle(ctx, articleID, q)
}

// GetComment returns one comment
func (s *commentService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	if err := validation.RequireID("Comment", id); err != nil {
		return nil, err
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, commentNotFound(id)
	}
	return comment, nil
}

// AddComment posts a comment once both its author and article are known to exist
func (s *commentService) AddComment(ctx context.Context, articleID string, req *models.NewComment) (*models.Comment, error) {
	if err := validation.RequireID("Article", articleID); err != nil {
		return nil, err
	}
	if err := validation.NewComment(req); err != nil {
		return nil, err
	}

	err := s.checker.All(ctx,
		repository.Check{Kind: repository.KindUser, Key: req.Username},
		repository.Check{Kind: repository.KindArticle, Key: articleID},
	)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Create(ctx, articleID, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("comment_id", comment.CommentID).
		Int("article_id", comment.ArticleID).
		Str("author", comment.Author).
		Msg("Comment created")
	return comment, nil
}

// VoteOnComment applies a vote increment, never taking votes below zero
func (s *commentService) VoteOnComment(ctx context.Context, id string, incVotes json.RawMessage) (*models.Comment, error) {
	if err := validation.RequireID("Comment", id); err != nil {
		return nil, err
	}
	inc, err := validation.IncVotes(incVotes)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.UpdateVotes(ctx, id, inc)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, commentNotFound(id)
	}
	return comment, nil
}

// DeleteComment removes a comment
func (s *commentService) DeleteComment(ctx context.Context, id string) error {
	if err := validation.RequireID("Comment", id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return commentNotFound(id)
	}

	s.log.Info().Str("comment_id", id).Msg("Comment deleted")
	return nil
}

func commentNotFound(id string) error {
	return apperr.NotFound(`Comment with ID "%s" is not found`, id)
}
